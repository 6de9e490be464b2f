package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Outbound mail is fire-and-forget: delivery failures are logged, never
// surfaced to the request that triggered them.

type emailMessage struct {
	To      string
	Subject string
	Body    string
}

func sendEmail(msg emailMessage) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_FROM")

	if host == "" || port == "" || from == "" {
		return fmt.Errorf("SMTP is not configured")
	}

	var auth smtp.Auth

	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", from, msg.To, msg.Subject, msg.Body)

	return smtp.SendMail(host+":"+port, auth, from, []string{msg.To}, []byte(body))
}

// SendPasswordResetEmail dispatches the reset code asynchronously.
func SendPasswordResetEmail(email string, code string) {
	go func() {
		err := sendEmail(emailMessage{
			To:      email,
			Subject: "Password Reset Request",
			Body:    fmt.Sprintf("Your password reset code is %s. It expires in 30 minutes.", code),
		})

		if err != nil {
			log.Printf("Failed to send password reset email to %s: %v", email, err)
		}
	}()
}

// SendInvitationEmail notifies a user of a pending project invitation.
func SendInvitationEmail(email string, projectTitle string, message string) {
	body := fmt.Sprintf("You have been invited to join the project %q.", projectTitle)

	if message != "" {
		body += "\n\n" + message
	}

	go func() {
		err := sendEmail(emailMessage{
			To:      email,
			Subject: "Project Invitation",
			Body:    body,
		})

		if err != nil {
			log.Printf("Failed to send invitation email to %s: %v", email, err)
		}
	}()
}
