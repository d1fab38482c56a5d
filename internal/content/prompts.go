package content

import (
	"encoding/json"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

const newsSummaryPromptHeader = `You are a financial newsletter writer for OpenStock.
Summarize today's market news for an individual investor in clean HTML
(no <html> or <body> tags, no markdown). Group related stories, keep it
under 300 words, neutral tone, no investment advice. Render each story
as a short paragraph with the headline in <strong>. News data (JSON):

`

const welcomeIntroPromptHeader = `You are writing the opening paragraph of a welcome email for
OpenStock, an open-source stock market toolkit. Write 2-3 warm,
personal sentences referencing the user's profile below. Plain text,
no greetings like "Dear user", no markdown. Profile:

`

// NewsSummaryPrompt строит промпт пересказа новостей,
// встраивая статьи как JSON.
func NewsSummaryPrompt(articles []domain.Article) string {
	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		// Article маршалится всегда; ветка для прозрачности
		data = []byte("[]")
	}
	return newsSummaryPromptHeader + string(data)
}

// WelcomeIntroPrompt строит промпт персонального вступления
// welcome-письма.
func WelcomeIntroPrompt(userProfile string) string {
	return welcomeIntroPromptHeader + userProfile
}
