// Package mail delivers transactional email over SMTP.
//
// Delivery is best effort by design: account operations must not fail
// because the mail server is down, so callers log send errors and move
// on.
package mail

import (
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

// Mailer is the narrow sending capability handlers depend on. Tests
// substitute a recording implementation.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct{}

func NewSMTP() *SMTPMailer {
	return &SMTPMailer{}
}

func (s *SMTPMailer) Send(to, subject, body string) error {
	from := viper.GetString("mail.sender")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		from,
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}

// OTPMail builds the verification mail for a signup code.
func OTPMail(code string) (subject, body string) {
	return "Your KotuBrief verification code",
		fmt.Sprintf("Your verification code is: %s\nIt expires in 10 minutes.", code)
}

// ResetMail builds the mail for a password reset code.
func ResetMail(code string) (subject, body string) {
	return "Reset your KotuBrief password",
		fmt.Sprintf("Your password reset code is: %s\nIt expires in 10 minutes.", code)
}
