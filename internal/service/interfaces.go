package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"news_feed/internal/domain"
)

// UserStore holds user records. Lookups that miss return domain.ErrUserNotFound;
// Create returns domain.ErrUserExists when the email is taken.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type FeedCache interface {
	Get(ctx context.Context, key any) (*domain.Feed, bool, error)
	Set(ctx context.Context, key any, feed *domain.Feed) error
}

type Source interface {
	Name() string
	QueryArticles(ctx context.Context, q domain.ArticleQuery) ([]domain.ProviderArticle, error)
}

type Publisher interface {
	Publish(ctx context.Context, event domain.UserEvent) error
	Close() error
}
