package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"news_feed/internal/domain"
)

const (
	DefaultKeyword = "technology"
	sortByDate     = "date"
	keywordJoin    = " OR "
)

type feedKey struct {
	Preferences []string `json:"preferences"`
}

type FeedService struct {
	source   Source
	cache    FeedCache
	logger   *slog.Logger
	pageSize int
}

func NewFeedService(source Source, cache FeedCache, logger *slog.Logger, pageSize int) *FeedService {
	return &FeedService{
		source:   source,
		cache:    cache,
		logger:   logger.With("component", "feed", "source", source.Name()),
		pageSize: pageSize,
	}
}

// GetNews returns the feed for a preference list, serving from cache when an
// unexpired entry exists. Preference order does not affect the cache key.
func (s *FeedService) GetNews(ctx context.Context, preferences []string) (*domain.Feed, error) {
	terms := domain.ClonePreferences(preferences)
	slices.Sort(terms)
	key := feedKey{Preferences: terms}

	feed, ok, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("cache lookup failed", "error", err)
	case ok:
		s.logger.Debug("feed cache hit", "terms", len(terms))
		return feed, nil
	}

	articles, err := s.source.QueryArticles(ctx, domain.ArticleQuery{
		Keywords: BuildQuery(terms),
		Count:    s.pageSize,
		SortBy:   sortByDate,
	})
	if err != nil {
		s.logger.Error("failed to fetch articles", "error", err)
		return nil, domain.ErrRetrieval
	}

	news := make([]domain.Article, 0, len(articles))
	for i := range articles {
		news = append(news, NormalizeArticle(articles[i]))
	}
	feed = &domain.Feed{News: news}

	if err := s.cache.Set(ctx, key, feed); err != nil {
		s.logger.Warn("cache store failed", "error", err)
	}

	s.logger.Info("feed fetched", "terms", len(terms), "articles", len(news))
	return feed, nil
}

// BuildQuery joins preference terms into a keyword query, falling back to
// DefaultKeyword for an empty list.
func BuildQuery(terms []string) string {
	if len(terms) == 0 {
		return DefaultKeyword
	}
	return strings.Join(terms, keywordJoin)
}

// NormalizeArticle maps a provider record to the public article shape.
// Missing fields become empty strings.
func NormalizeArticle(a domain.ProviderArticle) domain.Article {
	out := domain.Article{
		Title:       a.Title,
		Description: a.Body,
		URL:         a.URL,
		ImageURL:    a.Image,
		PublishedAt: a.DateTime,
	}
	if out.Description == "" {
		out.Description = a.Description
	}
	if out.PublishedAt == "" {
		out.PublishedAt = a.Date
	}
	if a.Source != nil {
		out.Source = a.Source.Title
		if out.Source == "" {
			out.Source = a.Source.URI
		}
	}
	return out
}
