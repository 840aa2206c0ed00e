package eventregistry

import "news_feed/internal/domain"

// ArticlesRequest is the getArticles request body.
type ArticlesRequest struct {
	Action            string `json:"action"`
	Keyword           string `json:"keyword"`
	Lang              string `json:"lang,omitempty"`
	ArticlesPage      int    `json:"articlesPage"`
	ArticlesCount     int    `json:"articlesCount"`
	ArticlesSortBy    string `json:"articlesSortBy"`
	ArticlesSortByAsc bool   `json:"articlesSortByAsc"`
	ResultType        string `json:"resultType"`
	APIKey            string `json:"apiKey"`
}

// APIResponse represents the getArticles response structure.
type APIResponse struct {
	Articles *ArticlesResult `json:"articles"`
	Error    string          `json:"error"`
}

type ArticlesResult struct {
	Page    int                      `json:"page"`
	Pages   int                      `json:"pages"`
	Results []domain.ProviderArticle `json:"results"`
}
