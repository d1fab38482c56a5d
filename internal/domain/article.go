package domain

import "time"

// MaxArticlesPerUser — максимум статей в одном дайджесте.
const MaxArticlesPerUser = 6

// Article — новость с рынка.
type Article struct {
	// Headline — заголовок.
	Headline string `json:"headline"`

	// Summary — краткое содержание.
	Summary string `json:"summary"`

	// Source — издание/источник.
	Source string `json:"source"`

	// URL — ссылка на полный текст (может отсутствовать).
	URL string `json:"url,omitempty"`

	// Datetime — время публикации.
	Datetime time.Time `json:"datetime"`
}

// CapArticles обрезает список до MaxArticlesPerUser.
func CapArticles(articles []Article) []Article {
	if len(articles) > MaxArticlesPerUser {
		return articles[:MaxArticlesPerUser]
	}
	return articles
}

// UserDigestTask — подготовленный к отправке дайджест одного пользователя.
//
// Живёт только в памяти одного run'а, никогда не персистится.
// Пользователь с пустым списком статей всё равно получает письмо
// (рендерится блок "no news today").
type UserDigestTask struct {
	User     User
	Articles []Article
}
