package domain

// Article is the normalized article shape. All fields are always present.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

// Feed is the result of a news request.
type Feed struct {
	News []Article `json:"news"`
}

// ProviderArticle is an article as returned by the aggregator. Any field may be missing.
type ProviderArticle struct {
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Description string          `json:"description"`
	URL         string          `json:"url"`
	Image       string          `json:"image"`
	Source      *ProviderSource `json:"source"`
	DateTime    string          `json:"dateTime"`
	Date        string          `json:"date"`
}

type ProviderSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ArticleQuery describes a single aggregator request.
type ArticleQuery struct {
	Keywords string
	Count    int
	SortBy   string
}
