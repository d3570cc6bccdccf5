// Package mail 提供出站 SMTP 与入站 IMAP 两个邮件传输客户端。
package mail

import (
	"fmt"
	"net/smtp"
	"rfp-ai-go/internal/config"
	"rfp-ai-go/pkg/log"
	"strings"
)

// Sender defines the interface for the outbound mail transport.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	cfg config.SMTPConfig
}

// NewSender creates a new SMTP-backed Sender.
func NewSender(cfg config.SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

// Send 发送一封纯文本邮件。
func (s *smtpSender) Send(to, subject, body string) error {
	msg := buildMessage(s.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		log.Errorf("[MailSender] 发送邮件失败, to: %s, error: %v", to, err)
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	log.Infof("[MailSender] 邮件已发送, to: %s, subject: %s", to, subject)
	return nil
}

// buildMessage 拼装 RFC 5322 格式的纯文本邮件。
func buildMessage(from, to, subject, body string) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", from))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(body)

	return builder.String()
}
