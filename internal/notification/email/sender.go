// Package email delivers transactional mail over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers the platform's notification emails.
type Sender interface {
	SendPhotoReviewEmail(ctx context.Context, toEmail, companyName, serviceID, managerNotes string) error
	SendServiceReminderEmail(ctx context.Context, toEmail, recipientName, serviceID, scheduledDate string) error
}

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendPhotoReviewEmail notifies a company contact that the photo report for
// one of their services is ready.
func (s *SMTPSender) SendPhotoReviewEmail(ctx context.Context, toEmail, companyName, serviceID, managerNotes string) error {
	content, err := renderEmailTemplate("photo_review.html", photoReviewEmailData{
		baseEmailData: baseEmailData{
			Title:   "Service photo report",
			Heading: "Your service photo report is ready",
		},
		CompanyName:  companyName,
		ServiceID:    serviceID,
		ManagerNotes: managerNotes,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectPhotoReviewFmt, serviceID), content)
}

// SendServiceReminderEmail reminds a team member of an upcoming service.
func (s *SMTPSender) SendServiceReminderEmail(ctx context.Context, toEmail, recipientName, serviceID, scheduledDate string) error {
	content, err := renderEmailTemplate("service_reminder.html", serviceReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Upcoming service",
			Heading: "You have a service coming up",
		},
		RecipientName: recipientName,
		ServiceID:     serviceID,
		ScheduledDate: scheduledDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectServiceReminderFmt, scheduledDate), content)
}
