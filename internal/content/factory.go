package content

import (
	"log/slog"
	"os"
	"strings"
)

// NewFromEnv выбирает Generator по переменным окружения.
//
// AI_PROVIDER: openai | gemini | none | auto (по умолчанию).
// В режиме auto предпочтение OpenAI, затем Gemini; без ключей —
// nil (детерминированный режим). Выбор выполняется один раз при
// старте процесса, не на каждый вызов.
func NewFromEnv(logger *slog.Logger) Generator {
	provider := strings.ToLower(os.Getenv("AI_PROVIDER"))
	if provider == "" {
		provider = "auto"
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	switch provider {
	case "none":
		return nil

	case "openai":
		if openaiKey == "" {
			logger.Warn("OPENAI_API_KEY not set, generative content disabled")
			return nil
		}
		model := os.Getenv("OPENAI_MODEL")
		logger.Info("using openai generator", "model", modelOrDefault(model, defaultOpenAIModel))
		return NewOpenAIGenerator(openaiKey, model)

	case "gemini":
		if geminiKey == "" {
			logger.Warn("GEMINI_API_KEY not set, generative content disabled")
			return nil
		}
		model := os.Getenv("GEMINI_MODEL")
		logger.Info("using gemini generator", "model", modelOrDefault(model, defaultGeminiModel))
		return NewGeminiGenerator(geminiKey, model)

	case "auto":
		if openaiKey != "" {
			model := os.Getenv("OPENAI_MODEL")
			logger.Info("auto-selected openai generator", "model", modelOrDefault(model, defaultOpenAIModel))
			return NewOpenAIGenerator(openaiKey, model)
		}
		if geminiKey != "" {
			model := os.Getenv("GEMINI_MODEL")
			logger.Info("auto-selected gemini generator", "model", modelOrDefault(model, defaultGeminiModel))
			return NewGeminiGenerator(geminiKey, model)
		}
	}

	logger.Warn("no generator configured, using deterministic content only")
	return nil
}

func modelOrDefault(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
