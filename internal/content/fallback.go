package content

import (
	"html/template"
	"strings"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// FallbackWelcomeIntro — вступление welcome-письма, когда
// генератор недоступен или вернул пустой текст.
const FallbackWelcomeIntro = "Thanks for joining OpenStock. You now have the tools to track markets and make smarter moves."

// noNewsBlock рендерится при пустом списке статей.
const noNewsBlock = `<div style="padding:16px;background:#f6f8fa;border-radius:8px;color:#57606a;">No market news available today. Check back tomorrow for the latest updates on your watchlist.</div>`

var articleTmpl = template.Must(template.New("article").Parse(`<div style="margin-bottom:16px;padding:16px;background:#ffffff;border:1px solid #d0d7de;border-radius:8px;">
<div style="font-size:16px;font-weight:600;color:#1f2328;">{{.Headline}}</div>
{{if .Summary}}<div style="margin-top:8px;font-size:14px;color:#57606a;">{{.Summary}}</div>{{end}}
<div style="margin-top:8px;font-size:12px;color:#8c959f;">{{.Meta}}</div>
{{if .URL}}<div style="margin-top:8px;"><a href="{{.URL}}" style="font-size:13px;color:#0969da;">Read more</a></div>{{end}}
</div>`))

type articleView struct {
	Headline string
	Summary  string
	Meta     string
	URL      string
}

// RenderArticles — детерминированный рендеринг дайджеста.
//
// Чистая функция от входа: одни и те же статьи всегда дают один и
// тот же HTML, что позволяет тестировать рассылку без генератора.
// Пустой список рендерится как блок "no news today".
func RenderArticles(articles []domain.Article) string {
	if len(articles) == 0 {
		return noNewsBlock
	}

	var b strings.Builder
	for _, a := range articles {
		view := articleView{
			Headline: a.Headline,
			Summary:  a.Summary,
			Meta:     articleMeta(a),
			URL:      a.URL,
		}
		// articleTmpl не может упасть на articleView
		_ = articleTmpl.Execute(&b, view)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// articleMeta форматирует строку "дата · источник".
func articleMeta(a domain.Article) string {
	parts := make([]string, 0, 2)
	if !a.Datetime.IsZero() {
		parts = append(parts, a.Datetime.Format("Jan 2, 2006"))
	}
	if a.Source != "" {
		parts = append(parts, a.Source)
	}
	return strings.Join(parts, " · ")
}

// FormatDigestDate форматирует дату для темы и шапки письма.
func FormatDigestDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
