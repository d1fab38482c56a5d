package domain

import "strings"

// User — получатель писем.
//
// Источник данных — внешняя пользовательская БД (auth и хранение
// профилей не входят в mail-подсистему, мы только читаем).
type User struct {
	// Email — адрес получателя, уникальный идентификатор пользователя.
	Email string `json:"email"`

	// Name — отображаемое имя.
	Name string `json:"name"`

	// Профиль для персонализации welcome-письма.
	Country           string `json:"country,omitempty"`
	InvestmentGoals   string `json:"investment_goals,omitempty"`
	RiskTolerance     string `json:"risk_tolerance,omitempty"`
	PreferredIndustry string `json:"preferred_industry,omitempty"`
}

// Profile возвращает текстовое описание профиля для AI-промпта.
func (u *User) Profile() string {
	var b strings.Builder
	b.WriteString("- Country: " + u.Country + "\n")
	b.WriteString("- Investment goals: " + u.InvestmentGoals + "\n")
	b.WriteString("- Risk tolerance: " + u.RiskTolerance + "\n")
	b.WriteString("- Preferred industry: " + u.PreferredIndustry + "\n")
	return b.String()
}
