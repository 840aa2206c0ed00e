package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"news_feed/internal/cache"
	"news_feed/internal/domain"
	"news_feed/internal/service/mocks"
)

type FeedServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source *mocks.MockSource
	cache  *mocks.MockFeedCache

	service *FeedService
	logger  *slog.Logger
}

func (s *FeedServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.cache = mocks.NewMockFeedCache(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.source.EXPECT().Name().Return("Test Source").AnyTimes()

	s.service = NewFeedService(s.source, s.cache, s.logger, 10)
}

func (s *FeedServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestFeedServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FeedServiceTestSuite))
}

func (s *FeedServiceTestSuite) TestGetNews_MissQueriesAndCaches() {
	ctx := context.Background()
	key := feedKey{Preferences: []string{"ai", "space"}}

	s.cache.EXPECT().Get(ctx, key).Return(nil, false, nil)
	s.source.EXPECT().QueryArticles(ctx, domain.ArticleQuery{
		Keywords: "ai OR space",
		Count:    10,
		SortBy:   "date",
	}).Return([]domain.ProviderArticle{{Title: "T", Body: "B"}}, nil)
	s.cache.EXPECT().Set(ctx, key, gomock.Any()).Return(nil)

	feed, err := s.service.GetNews(ctx, []string{"space", "ai"})

	s.NoError(err)
	s.Require().Len(feed.News, 1)
	s.Equal("T", feed.News[0].Title)
	s.Equal("B", feed.News[0].Description)
}

func (s *FeedServiceTestSuite) TestGetNews_EmptyPreferencesUseDefault() {
	ctx := context.Background()
	key := feedKey{Preferences: []string{}}

	s.cache.EXPECT().Get(ctx, key).Return(nil, false, nil)
	s.source.EXPECT().QueryArticles(ctx, domain.ArticleQuery{
		Keywords: DefaultKeyword,
		Count:    10,
		SortBy:   "date",
	}).Return(nil, nil)
	s.cache.EXPECT().Set(ctx, key, gomock.Any()).Return(nil)

	feed, err := s.service.GetNews(ctx, nil)

	s.NoError(err)
	s.NotNil(feed.News)
	s.Empty(feed.News)
}

func (s *FeedServiceTestSuite) TestGetNews_CacheHit() {
	ctx := context.Background()
	cached := &domain.Feed{News: []domain.Article{{Title: "cached"}}}

	s.cache.EXPECT().Get(ctx, feedKey{Preferences: []string{"space"}}).Return(cached, true, nil)

	feed, err := s.service.GetNews(ctx, []string{"space"})

	s.NoError(err)
	s.Same(cached, feed)
}

func (s *FeedServiceTestSuite) TestGetNews_SourceFailure() {
	ctx := context.Background()

	s.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, false, nil)
	s.source.EXPECT().QueryArticles(ctx, gomock.Any()).Return(nil, errors.New("unexpected status: 500"))

	_, err := s.service.GetNews(ctx, []string{"space"})

	s.ErrorIs(err, domain.ErrRetrieval)
	s.Equal("failed to fetch news", domain.MessageOf(err))
}

func (s *FeedServiceTestSuite) TestGetNews_CacheErrorsAreNotFatal() {
	ctx := context.Background()

	s.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, false, errors.New("redis down"))
	s.source.EXPECT().QueryArticles(ctx, gomock.Any()).Return([]domain.ProviderArticle{{Title: "T"}}, nil)
	s.cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	feed, err := s.service.GetNews(ctx, []string{"space"})

	s.NoError(err)
	s.Len(feed.News, 1)
}

func (s *FeedServiceTestSuite) TestGetNews_MemoryCacheServesRepeat() {
	ctx := context.Background()
	svc := NewFeedService(s.source, cache.NewMemoryFeedCache(5*time.Minute), s.logger, 10)

	s.source.EXPECT().QueryArticles(ctx, gomock.Any()).Return([]domain.ProviderArticle{{Title: "T"}}, nil).Times(1)

	first, err := svc.GetNews(ctx, []string{"space", "ai"})
	s.Require().NoError(err)

	second, err := svc.GetNews(ctx, []string{"ai", "space"})
	s.Require().NoError(err)

	s.Equal(first, second)
}

func TestBuildQuery(t *testing.T) {
	assert.Equal(t, "technology", BuildQuery(nil))
	assert.Equal(t, "space", BuildQuery([]string{"space"}))
	assert.Equal(t, "ai OR space", BuildQuery([]string{"ai", "space"}))
}

func TestNormalizeArticle(t *testing.T) {
	tests := []struct {
		name string
		in   domain.ProviderArticle
		want domain.Article
	}{
		{
			name: "full record",
			in: domain.ProviderArticle{
				Title:       "Launch",
				Body:        "Body text",
				Description: "Desc",
				URL:         "https://e.com/1",
				Image:       "https://e.com/1.jpg",
				Source:      &domain.ProviderSource{Title: "Example", URI: "e.com"},
				DateTime:    "2024-01-01T10:00:00Z",
				Date:        "2024-01-01",
			},
			want: domain.Article{
				Title:       "Launch",
				Description: "Body text",
				URL:         "https://e.com/1",
				ImageURL:    "https://e.com/1.jpg",
				Source:      "Example",
				PublishedAt: "2024-01-01T10:00:00Z",
			},
		},
		{
			name: "fallback fields",
			in: domain.ProviderArticle{
				Title:       "Launch",
				Description: "Desc",
				Source:      &domain.ProviderSource{URI: "e.com"},
				Date:        "2024-01-01",
			},
			want: domain.Article{
				Title:       "Launch",
				Description: "Desc",
				Source:      "e.com",
				PublishedAt: "2024-01-01",
			},
		},
		{
			name: "empty record",
			in:   domain.ProviderArticle{},
			want: domain.Article{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeArticle(tt.in))
		})
	}
}
