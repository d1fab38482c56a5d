package content

import "context"

// Generator — генеративный источник текста.
//
// Реализации: OpenAIGenerator, GeminiGenerator. Отсутствие
// генератора (nil) — штатный режим: вызывающий код обязан уметь
// деградировать в детерминированный рендеринг.
type Generator interface {
	// GenerateText возвращает текст по промпту.
	// Пустой результат трактуется вызывающим кодом как отказ.
	GenerateText(ctx context.Context, prompt string) (string, error)
}
