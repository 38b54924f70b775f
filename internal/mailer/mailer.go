// Package mailer sends transactional notification emails.
// Delivery is fire-and-forget: failures are logged and never block or roll
// back the mutation they are attached to.
package mailer

import (
	"fmt"
	"log/slog"

	"okai/internal/config"
	"okai/internal/observability"

	"gopkg.in/gomail.v2"
)

// Kind identifies a notification template.
type Kind string

const (
	KindSignupPending     Kind = "signup-pending"
	KindCoPCreated        Kind = "cop-created"
	KindCoPApproved       Kind = "cop-approved"
	KindCoPMemberApproved Kind = "cop-member-approved"
	KindContactForm       Kind = "contact-form"
)

// Payload carries template values. Unused fields are ignored by templates.
type Payload struct {
	UserName  string
	UserEmail string
	CoPName   string
	Message   string
}

// Mailer sends templated HTML emails over SMTP.
type Mailer struct {
	cfg    *config.Config
	logger *slog.Logger
	// send is swappable for tests; defaults to gomail DialAndSend.
	send func(to, subject, htmlBody string) error
}

// New creates a Mailer. When SMTP is not configured the mailer is disabled
// and every Notify call is a logged no-op.
func New(cfg *config.Config, logger *slog.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	m.send = m.smtpSend
	if !cfg.MailEnabled() {
		logger.Warn("SMTP not configured, email notifications disabled")
	}
	return m
}

func (m *Mailer) smtpSend(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUsername, m.cfg.SMTPPassword)
	return d.DialAndSend(msg)
}

// Notify builds the template for kind and dispatches it asynchronously.
// At-most-once, best-effort delivery.
func (m *Mailer) Notify(kind Kind, to string, payload Payload) {
	if !m.cfg.MailEnabled() {
		m.logger.Warn("email notification skipped, SMTP not configured",
			slog.String("kind", string(kind)))
		return
	}
	if to == "" {
		m.logger.Warn("email notification skipped, empty recipient",
			slog.String("kind", string(kind)))
		return
	}

	subject, body := m.Render(kind, payload)

	go func() {
		if err := m.send(to, subject, body); err != nil {
			observability.EmailsSent.WithLabelValues(string(kind), "failed").Inc()
			m.logger.Error("email notification failed",
				slog.String("kind", string(kind)),
				slog.String("to", to),
				slog.String("error", err.Error()),
			)
			return
		}
		observability.EmailsSent.WithLabelValues(string(kind), "sent").Inc()
		m.logger.Info("email notification sent",
			slog.String("kind", string(kind)),
			slog.String("to", to),
		)
	}()
}

// Render builds the subject and HTML body for a notification kind.
func (m *Mailer) Render(kind Kind, p Payload) (subject, body string) {
	base := m.cfg.SiteBaseURL

	switch kind {
	case KindSignupPending:
		subject = "[OK AI Community] 새로운 가입 신청이 있습니다"
		body = fmt.Sprintf(
			`<p>새로운 가입 신청이 접수되었습니다.</p>
<p><b>이름:</b> %s<br/><b>이메일:</b> %s</p>
<p><a href="%s/admin/users">관리자 페이지에서 승인하기</a></p>`,
			p.UserName, p.UserEmail, base)
	case KindCoPCreated:
		subject = "[OK AI Community] 새로운 CoP 개설 신청이 있습니다"
		body = fmt.Sprintf(
			`<p><b>%s</b> 님이 CoP <b>%s</b> 개설을 신청했습니다.</p>
<p><a href="%s/admin/cops">관리자 페이지에서 검토하기</a></p>`,
			p.UserName, p.CoPName, base)
	case KindCoPApproved:
		subject = "[OK AI Community] CoP 개설이 승인되었습니다"
		body = fmt.Sprintf(
			`<p>신청하신 CoP <b>%s</b> 개설이 승인되었습니다.</p>
<p><a href="%s/cops">CoP 바로가기</a></p>`,
			p.CoPName, base)
	case KindCoPMemberApproved:
		subject = "[OK AI Community] CoP 가입이 승인되었습니다"
		body = fmt.Sprintf(
			`<p>CoP <b>%s</b> 가입이 승인되었습니다.</p>
<p><a href="%s/cops">CoP 바로가기</a></p>`,
			p.CoPName, base)
	case KindContactForm:
		subject = "[OK AI Community] 문의가 접수되었습니다"
		body = fmt.Sprintf(
			`<p><b>%s</b> (%s) 님의 문의입니다.</p>
<blockquote>%s</blockquote>`,
			p.UserName, p.UserEmail, p.Message)
	default:
		subject = "[OK AI Community] 알림"
		body = fmt.Sprintf("<p>%s</p>", p.Message)
	}
	return subject, body
}

// SetSendFunc replaces the delivery function. Tests use this to capture
// outgoing messages without an SMTP server.
func (m *Mailer) SetSendFunc(fn func(to, subject, htmlBody string) error) {
	m.send = fn
}
