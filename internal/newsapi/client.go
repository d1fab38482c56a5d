// Package newsapi — клиент Finnhub для получения рыночных новостей.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

const (
	defaultBaseURL = "https://finnhub.io/api/v1"
	requestTimeout = 15 * time.Second

	// companyNewsWindow — за сколько дней запрашивать company news.
	companyNewsWindow = 5 * 24 * time.Hour
)

// Client — HTTP-клиент Finnhub.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient создаёт клиент с токеном token.
func NewClient(token string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// NewClientFromEnv создаёт клиент из FINNHUB_API_KEY.
func NewClientFromEnv() *Client {
	return NewClient(os.Getenv("FINNHUB_API_KEY"))
}

// FetchArticles возвращает новости.
//
// С непустым списком symbols — company news по тикерам,
// перемешанные round-robin (чтобы один активный тикер не вытеснил
// остальные) и дедуплицированные по URL. Без symbols — общая
// рыночная лента. Результат не обрезается: лимит на пользователя
// применяет вызывающий код.
func (c *Client) FetchArticles(ctx context.Context, symbols []string) ([]domain.Article, error) {
	if len(symbols) == 0 {
		return c.generalNews(ctx)
	}

	perSymbol := make([][]domain.Article, 0, len(symbols))
	for _, symbol := range symbols {
		articles, err := c.companyNews(ctx, symbol)
		if err != nil {
			// Один недоступный тикер не срывает весь запрос
			continue
		}
		if len(articles) > 0 {
			perSymbol = append(perSymbol, articles)
		}
	}

	return interleave(perSymbol), nil
}

// generalNews запрашивает общую рыночную ленту.
func (c *Client) generalNews(ctx context.Context) ([]domain.Article, error) {
	q := url.Values{}
	q.Set("category", "general")
	return c.getNews(ctx, "/news", q)
}

// companyNews запрашивает новости одного тикера за окно по
// сегодняшний день.
func (c *Client) companyNews(ctx context.Context, symbol string) ([]domain.Article, error) {
	now := time.Now()
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", now.Add(-companyNewsWindow).Format("2006-01-02"))
	q.Set("to", now.Format("2006-01-02"))
	return c.getNews(ctx, "/company-news", q)
}

func (c *Client) getNews(ctx context.Context, path string, q url.Values) ([]domain.Article, error) {
	q.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call finnhub: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub error %d", resp.StatusCode)
	}

	var raw []struct {
		Headline string `json:"headline"`
		Summary  string `json:"summary"`
		Source   string `json:"source"`
		URL      string `json:"url"`
		Datetime int64  `json:"datetime"` // unix seconds
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	articles := make([]domain.Article, 0, len(raw))
	for _, item := range raw {
		if item.Headline == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Headline: item.Headline,
			Summary:  item.Summary,
			Source:   item.Source,
			URL:      item.URL,
			Datetime: time.Unix(item.Datetime, 0).UTC(),
		})
	}
	return articles, nil
}

// interleave собирает round-robin по спискам с дедупликацией по URL.
func interleave(lists [][]domain.Article) []domain.Article {
	var out []domain.Article
	seen := make(map[string]bool)

	for i := 0; ; i++ {
		progressed := false
		for _, list := range lists {
			if i >= len(list) {
				continue
			}
			progressed = true
			a := list[i]
			if a.URL != "" && seen[a.URL] {
				continue
			}
			if a.URL != "" {
				seen[a.URL] = true
			}
			out = append(out, a)
		}
		if !progressed {
			return out
		}
	}
}
