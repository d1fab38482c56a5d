// Package mailer отправляет письма через SMTP.
//
// Поддерживаются TLS (порт 465) и STARTTLS (порт 587).
// Транспорт — at-most-once с точки зрения одного вызова: повтор
// после сбоя может привести к дублю письма, это допустимо.
package mailer

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"mime"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// Sender — SMTP-отправитель.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string // адрес отправителя
}

// Envelope — письмо для отправки.
type Envelope struct {
	To      string
	Subject string
	Text    string // plain-text часть
	HTML    string // HTML часть
}

// NewSender создаёт Sender.
func NewSender(host, port, username, password, from string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// NewSenderFromEnv создаёт Sender из SMTP_* переменных окружения.
func NewSenderFromEnv() *Sender {
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return NewSender(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)
}

// SendWelcome отправляет welcome-письмо.
func (s *Sender) SendWelcome(user domain.User, introHTML string) error {
	html := RenderWelcome(user.Name, introHTML)
	return s.Send(Envelope{
		To:      user.Email,
		Subject: "Welcome to OpenStock - your open-source stock market toolkit!",
		Text:    "Thanks for joining OpenStock, an initiative by open dev society",
		HTML:    html,
	})
}

// SendNewsSummary отправляет daily digest.
func (s *Sender) SendNewsSummary(email, date, contentHTML string) error {
	html := RenderNewsSummary(date, contentHTML)
	return s.Send(Envelope{
		To:      email,
		Subject: "Market News Summary Today - " + date,
		Text:    "Today's market news summary from OpenStock",
		HTML:    html,
	})
}

// Send собирает MIME-сообщение и отправляет его.
func (s *Sender) Send(e Envelope) error {
	msg := s.buildMessage(e)
	addr := s.host + ":" + s.port

	if s.port == "465" {
		return s.sendTLS(addr, e.To, msg)
	}
	return s.sendSTARTTLS(addr, e.To, msg)
}

// buildMessage формирует multipart/alternative сообщение.
func (s *Sender) buildMessage(e Envelope) []byte {
	boundary := "b-" + randomToken(16)

	headers := []string{
		"From: " + mime.QEncoding.Encode("utf-8", "OpenStock") + " <" + s.from + ">",
		"To: " + e.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", e.Subject),
		"Date: " + time.Now().UTC().Format(time.RFC1123Z),
		"Message-ID: <" + randomToken(12) + "@openstock.app>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + boundary + `"`,
		"",
		"--" + boundary,
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		e.Text,
		"",
		"--" + boundary,
		`Content-Type: text/html; charset="utf-8"`,
		"",
		e.HTML,
		"",
		"--" + boundary + "--",
	}

	return []byte(strings.Join(headers, "\r\n"))
}

// sendTLS отправляет через implicit TLS (порт 465).
func (s *Sender) sendTLS(addr, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.host})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	return s.submit(client, to, msg)
}

// sendSTARTTLS отправляет через STARTTLS (порт 587 и прочие).
func (s *Sender) sendSTARTTLS(addr, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	defer client.Quit()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	return s.submit(client, to, msg)
}

// submit выполняет MAIL/RCPT/DATA на открытом клиенте.
func (s *Sender) submit(client *smtp.Client, to string, msg []byte) error {
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}
	return nil
}

func randomToken(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, n)
	for i := range result {
		result[i] = letters[rand.Intn(len(letters))]
	}
	return string(result)
}
