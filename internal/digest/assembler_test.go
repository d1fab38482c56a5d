package digest

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/HarveyGG/OpenStock/internal/content"
	"github.com/HarveyGG/OpenStock/internal/domain"
)

type fakeGenerator struct {
	text string
	err  error

	prompts []string
}

func (f *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func testArticles() []domain.Article {
	return []domain.Article{
		{
			Headline: "Fed holds rates steady",
			Summary:  "No change this quarter.",
			Source:   "Newswire",
			URL:      "https://example.com/fed",
			Datetime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			Headline: "AAPL beats estimates",
			Source:   "Ticker",
			Datetime: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestNewsHTML_UsesGenerator(t *testing.T) {
	gen := &fakeGenerator{text: "  <p>Generated digest</p>\n"}
	a := NewAssembler(gen, slog.Default())

	got := a.NewsHTML(context.Background(), testArticles())
	if got != "<p>Generated digest</p>" {
		t.Fatalf("got %q, want trimmed generator output", got)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("generator called %d times, want 1", len(gen.prompts))
	}
	// Промпт должен нести статьи
	if !strings.Contains(gen.prompts[0], "Fed holds rates steady") {
		t.Error("prompt should embed article headlines")
	}
}

func TestNewsHTML_GeneratorFailureFallsBack(t *testing.T) {
	articles := testArticles()
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	a := NewAssembler(gen, slog.Default())

	got := a.NewsHTML(context.Background(), articles)

	// Fallback детерминирован: байт-в-байт совпадает с прямым
	// рендерингом тех же статей
	if want := content.RenderArticles(articles); got != want {
		t.Fatalf("fallback output diverges from deterministic rendering\ngot:  %q\nwant: %q", got, want)
	}
	if !strings.Contains(got, "Fed holds rates steady") {
		t.Error("rendered digest should contain headlines")
	}
}

func TestNewsHTML_EmptyGeneratorOutputFallsBack(t *testing.T) {
	articles := testArticles()
	gen := &fakeGenerator{text: "   \n  "}
	a := NewAssembler(gen, slog.Default())

	got := a.NewsHTML(context.Background(), articles)
	if want := content.RenderArticles(articles); got != want {
		t.Fatalf("whitespace-only generator output must fall back")
	}
}

func TestNewsHTML_NoArticlesSkipsGenerator(t *testing.T) {
	gen := &fakeGenerator{text: "should not be used"}
	a := NewAssembler(gen, slog.Default())

	got := a.NewsHTML(context.Background(), nil)
	if len(gen.prompts) != 0 {
		t.Error("generator must not be called for empty article list")
	}
	if !strings.Contains(got, "No market news available today") {
		t.Errorf("got %q, want no-news block", got)
	}
}

func TestNewsHTML_NilGenerator(t *testing.T) {
	a := NewAssembler(nil, slog.Default())

	got := a.NewsHTML(context.Background(), testArticles())
	if want := content.RenderArticles(testArticles()); got != want {
		t.Fatal("nil generator must render deterministically")
	}
}

func TestWelcomeIntro_Chain(t *testing.T) {
	gen := &fakeGenerator{text: "Welcome aboard, investor."}
	a := NewAssembler(gen, slog.Default())

	if got := a.WelcomeIntro(context.Background(), "- Country: US\n"); got != "Welcome aboard, investor." {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(gen.prompts[0], "- Country: US") {
		t.Error("prompt should embed user profile")
	}
}

func TestWelcomeIntro_FallbackSentence(t *testing.T) {
	for name, a := range map[string]*Assembler{
		"nil generator":     NewAssembler(nil, slog.Default()),
		"failing generator": NewAssembler(&fakeGenerator{err: errors.New("down")}, slog.Default()),
		"empty output":      NewAssembler(&fakeGenerator{text: " "}, slog.Default()),
	} {
		if got := a.WelcomeIntro(context.Background(), "profile"); got != content.FallbackWelcomeIntro {
			t.Errorf("%s: got %q, want fixed fallback sentence", name, got)
		}
	}
}
