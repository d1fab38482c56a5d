package mailer

import "strings"

// HTML-каркасы писем. Контентные блоки подставляются по
// плейсхолдерам; весь динамический HTML приходит уже отрендеренным
// (assembler экранирует пользовательские данные).

const welcomeTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background:#f6f8fa;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Helvetica,Arial,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0">
<tr><td align="center" style="padding:32px 16px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:12px;overflow:hidden;">
<tr><td style="padding:32px;background:#1f2328;">
<span style="font-size:22px;font-weight:700;color:#ffffff;">OpenStock</span>
</td></tr>
<tr><td style="padding:32px;">
<p style="font-size:18px;color:#1f2328;margin:0 0 16px;">Hi {{name}},</p>
<p style="font-size:15px;color:#57606a;line-height:1.6;margin:0 0 24px;">{{intro}}</p>
<p style="font-size:15px;color:#57606a;line-height:1.6;margin:0 0 24px;">
Build your watchlist, follow the markets and get a personalized news
digest in your inbox every day.</p>
<p style="font-size:13px;color:#8c959f;margin:0;">— The OpenStock team</p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`

const newsSummaryTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:0;background:#f6f8fa;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Helvetica,Arial,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0">
<tr><td align="center" style="padding:32px 16px;">
<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:12px;overflow:hidden;">
<tr><td style="padding:32px;background:#1f2328;">
<span style="font-size:22px;font-weight:700;color:#ffffff;">OpenStock</span><br>
<span style="font-size:13px;color:#8c959f;">Market News Summary — {{date}}</span>
</td></tr>
<tr><td style="padding:32px;">
{{newsContent}}
</td></tr>
<tr><td style="padding:16px 32px;background:#f6f8fa;">
<p style="font-size:12px;color:#8c959f;margin:0;">
You receive this digest because news emails are enabled in your
OpenStock settings.</p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`

// RenderWelcome подставляет имя и вступление в welcome-шаблон.
func RenderWelcome(name, introHTML string) string {
	out := strings.Replace(welcomeTemplate, "{{name}}", name, 1)
	return strings.Replace(out, "{{intro}}", introHTML, 1)
}

// RenderNewsSummary подставляет дату и контент в digest-шаблон.
func RenderNewsSummary(date, newsContentHTML string) string {
	out := strings.Replace(newsSummaryTemplate, "{{date}}", date, 1)
	return strings.Replace(out, "{{newsContent}}", newsContentHTML, 1)
}
