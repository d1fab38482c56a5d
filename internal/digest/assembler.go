// Package digest собирает содержимое писем.
//
// Assembler реализует двухступенчатую стратегию: сначала
// генеративный источник (если сконфигурирован), при любом его
// отказе — детерминированный шаблон. Assembler никогда не
// возвращает ошибку и никогда не отдаёт пустой контент.
package digest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/HarveyGG/OpenStock/internal/content"
	"github.com/HarveyGG/OpenStock/internal/domain"
)

// Assembler строит HTML-контент дайджеста и welcome-вступление.
type Assembler struct {
	gen    content.Generator // nil — только детерминированный режим
	logger *slog.Logger
}

// NewAssembler создаёт Assembler. gen может быть nil.
func NewAssembler(gen content.Generator, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{gen: gen, logger: logger}
}

// NewsHTML возвращает тело дайджеста для списка статей.
//
// Генеративный путь: промпт со статьями → GenerateText → trim.
// Ошибка или пустой результат — не сбой рассылки, а переход на
// детерминированный рендеринг тех же статей.
func (a *Assembler) NewsHTML(ctx context.Context, articles []domain.Article) string {
	if a.gen != nil && len(articles) > 0 {
		text, err := a.gen.GenerateText(ctx, content.NewsSummaryPrompt(articles))
		if err != nil {
			a.logger.Warn("news summary generation failed, using fallback", "error", err)
		} else if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return content.RenderArticles(articles)
}

// WelcomeIntro возвращает персональное вступление welcome-письма.
// Цепочка: генератор → фиксированное предложение.
func (a *Assembler) WelcomeIntro(ctx context.Context, userProfile string) string {
	if a.gen != nil {
		text, err := a.gen.GenerateText(ctx, content.WelcomeIntroPrompt(userProfile))
		if err != nil {
			a.logger.Warn("welcome intro generation failed, using fallback", "error", err)
		} else if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}
	return content.FallbackWelcomeIntro
}
