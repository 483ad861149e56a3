package email

import (
	"fmt"
	"log"

	gomail "gopkg.in/gomail.v2"

	"github.com/freelance-market/market-backend/config"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer creates a mailer from the email config
func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// SendVerificationEmail sends the email-verification code to a new account.
func (m *Mailer) SendVerificationEmail(to, firstName, code string) error {
	body := fmt.Sprintf(`<h2>Verify Your Email</h2>
<p>Hi %s,</p>
<p>Welcome to FreelanceMarket! Use the code below to verify your email address:</p>
<h1 style="letter-spacing:4px">%s</h1>
<p>If you did not create an account, you can ignore this email.</p>`, firstName, code)

	return m.send(to, "Verify Your Email - FreelanceMarket", body)
}

// SendWelcomeEmail sends the post-verification welcome mail. Best effort.
func (m *Mailer) SendWelcomeEmail(to, firstName string) error {
	body := fmt.Sprintf(`<h2>Welcome to FreelanceMarket!</h2>
<p>Hi %s,</p>
<p>Your email is verified and your account is ready to use.</p>`, firstName)

	return m.send(to, "Welcome to FreelanceMarket!", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("[email] send to %s failed: %v", to, err)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
