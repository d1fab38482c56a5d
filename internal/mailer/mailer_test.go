package mailer

import (
	"strings"
	"testing"
)

func TestBuildMessage_MultipartStructure(t *testing.T) {
	s := NewSender("smtp.example.com", "587", "user", "pass", "noreply@openstock.app")

	msg := string(s.buildMessage(Envelope{
		To:      "a@example.com",
		Subject: "Market News Summary Today - Sunday, June 1, 2025",
		Text:    "plain text part",
		HTML:    "<p>html part</p>",
	}))

	for _, want := range []string{
		"To: a@example.com",
		"<noreply@openstock.app>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="`,
		`Content-Type: text/plain; charset="utf-8"`,
		`Content-Type: text/html; charset="utf-8"`,
		"plain text part",
		"<p>html part</p>",
		"Message-ID: <",
		"Date: ",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	// Закрывающая граница multipart
	if !strings.Contains(msg, "--\r\n") && !strings.HasSuffix(msg, "--") {
		t.Error("message should end with closing boundary")
	}

	// SMTP требует CRLF
	if strings.Contains(strings.ReplaceAll(msg, "\r\n", ""), "\n") {
		t.Error("bare LF in message, SMTP requires CRLF")
	}
}

func TestBuildMessage_EncodesSubject(t *testing.T) {
	s := NewSender("smtp.example.com", "587", "user", "pass", "noreply@openstock.app")

	msg := string(s.buildMessage(Envelope{
		To:      "a@example.com",
		Subject: "Дайджест",
	}))
	if strings.Contains(msg, "Subject: Дайджест") {
		t.Error("non-ASCII subject must be Q-encoded")
	}
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("expected Q-encoded subject in:\n%s", msg)
	}
}

func TestRenderWelcome_Placeholders(t *testing.T) {
	html := RenderWelcome("Alice", "<b>Custom intro</b>")

	if !strings.Contains(html, "Hi Alice,") {
		t.Error("name placeholder not substituted")
	}
	if !strings.Contains(html, "<b>Custom intro</b>") {
		t.Error("intro placeholder not substituted")
	}
	if strings.Contains(html, "{{name}}") || strings.Contains(html, "{{intro}}") {
		t.Error("unsubstituted placeholders remain")
	}
}

func TestRenderNewsSummary_Placeholders(t *testing.T) {
	html := RenderNewsSummary("Sunday, June 1, 2025", "<div>articles</div>")

	if !strings.Contains(html, "Sunday, June 1, 2025") {
		t.Error("date placeholder not substituted")
	}
	if !strings.Contains(html, "<div>articles</div>") {
		t.Error("content placeholder not substituted")
	}
	if strings.Contains(html, "{{date}}") || strings.Contains(html, "{{newsContent}}") {
		t.Error("unsubstituted placeholders remain")
	}
}

func TestNewSenderFromEnv_PortDefault(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "u")
	t.Setenv("SMTP_PASSWORD", "p")
	t.Setenv("SMTP_FROM", "noreply@openstock.app")

	s := NewSenderFromEnv()
	if s.port != "587" {
		t.Errorf("port = %q, want 587", s.port)
	}
}
