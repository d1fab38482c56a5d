package content

import (
	"strings"
	"testing"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

func TestRenderArticles_Empty(t *testing.T) {
	got := RenderArticles(nil)
	if !strings.Contains(got, "No market news available today") {
		t.Fatalf("got %q, want no-news block", got)
	}
}

func TestRenderArticles_Deterministic(t *testing.T) {
	articles := []domain.Article{
		{Headline: "One", Summary: "s1", Source: "A", Datetime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Headline: "Two", URL: "https://example.com/2"},
	}

	first := RenderArticles(articles)
	second := RenderArticles(articles)
	if first != second {
		t.Fatal("rendering must be a pure function of its input")
	}

	if !strings.Contains(first, "One") || !strings.Contains(first, "Two") {
		t.Error("output should contain all headlines")
	}
	if !strings.Contains(first, "Jun 1, 2025 · A") {
		t.Errorf("output should contain formatted meta, got:\n%s", first)
	}
	if !strings.Contains(first, `href="https://example.com/2"`) {
		t.Error("output should link articles with URLs")
	}
}

func TestRenderArticles_EscapesHTML(t *testing.T) {
	articles := []domain.Article{
		{Headline: `<script>alert("x")</script>`},
	}

	got := RenderArticles(articles)
	if strings.Contains(got, "<script>") {
		t.Fatal("headline must be HTML-escaped")
	}
}

func TestRenderArticles_OmitsEmptyFields(t *testing.T) {
	got := RenderArticles([]domain.Article{{Headline: "Bare"}})
	if strings.Contains(got, "Read more") {
		t.Error("article without URL should not render a link")
	}
}

func TestFormatDigestDate(t *testing.T) {
	d := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := FormatDigestDate(d); got != "Sunday, June 1, 2025" {
		t.Errorf("got %q", got)
	}
}

func TestNewsSummaryPrompt_EmbedsArticles(t *testing.T) {
	prompt := NewsSummaryPrompt([]domain.Article{
		{Headline: "Fed decision", Source: "Wire"},
	})
	if !strings.Contains(prompt, "Fed decision") {
		t.Error("prompt should embed headlines")
	}
}
