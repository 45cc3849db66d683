package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"fportal/config"
)

// SendEmail sends an HTML email through the configured SMTP relay. Returns
// an error without retrying; callers treat delivery as best effort.
func SendEmail(to []string, subject string, htmlBody string) error {
	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		return fmt.Errorf("email sender not configured")
	}
	if len(to) == 0 {
		to = []string{from}
	}

	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Faculty Portal <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += wrapEmailBody(subject, htmlBody)

	auth := smtp.PlainAuth("", from, password, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

func wrapEmailBody(title, body string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<body style="font-family: Helvetica, Arial, sans-serif; background: #f6f6f6; margin: 0; padding: 0;">
		<div style="max-width: 600px; margin: 40px auto; background: #ffffff; border-radius: 8px; overflow: hidden;">
			<div style="background: #1a2b55; padding: 24px; text-align: center;">
				<h1 style="color: #ffffff; margin: 0; font-size: 22px;">%s</h1>
			</div>
			<div style="padding: 32px; color: #1a2b55; line-height: 1.6;">%s</div>
		</div>
	</body>
	</html>`, title, body)
}
