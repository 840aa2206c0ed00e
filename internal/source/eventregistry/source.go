package eventregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"news_feed/internal/domain"
)

const (
	SourceID     = "eventregistry"
	SourceName   = "EventRegistry"
	articlesPath = "/api/v1/article/getArticles"
)

// Config holds EventRegistry source configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Lang    string
	Timeout time.Duration
}

// Source implements service.Source for the EventRegistry article API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	lang       string
	logger     *slog.Logger
}

// New creates a new EventRegistry source.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		lang:    cfg.Lang,
		logger:  logger.With("source", SourceID),
	}
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// QueryArticles fetches the first page of articles matching q. One request is
// made; failures are returned as-is.
func (s *Source) QueryArticles(ctx context.Context, q domain.ArticleQuery) ([]domain.ProviderArticle, error) {
	body := ArticlesRequest{
		Action:            "getArticles",
		Keyword:           q.Keywords,
		Lang:              s.lang,
		ArticlesPage:      1,
		ArticlesCount:     q.Count,
		ArticlesSortBy:    q.SortBy,
		ArticlesSortByAsc: false,
		ResultType:        "articles",
		APIKey:            s.apiKey,
	}

	resp, err := s.doRequest(ctx, body)
	if err != nil {
		return nil, err
	}

	if resp.Articles == nil {
		return []domain.ProviderArticle{}, nil
	}

	s.logger.Debug("fetched articles",
		"keywords", q.Keywords,
		"articles", len(resp.Articles.Results),
	)

	return resp.Articles.Results, nil
}

func (s *Source) doRequest(ctx context.Context, body ArticlesRequest) (*APIResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+articlesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "NewsFeed/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if apiResp.Error != "" {
		return nil, errors.New("api error: " + apiResp.Error)
	}

	return &apiResp, nil
}
