package service

import (
	"context"
	"fmt"
	"time"

	"keyportal-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendFlexOrderedNotification(ctx context.Context, email, name string, group domain.FlexGroup, count int32) error {
	subject := fmt.Sprintf("Flex re-cut ordered: %s", group.Name)
	body := fmt.Sprintf("A flex re-cut for %s (%s) has been ordered from the locksmith: %d new keys.", group.Name, group.Type, count)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendFlexReceivedNotification(ctx context.Context, email, name string, group domain.FlexGroup, disposedCount int) error {
	subject := fmt.Sprintf("Flex re-cut received: %s", group.Name)
	body := fmt.Sprintf("The flex re-cut for %s (%s) has arrived. %d superseded keys were disposed.", group.Name, group.Type, disposedCount)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendPickupReminder(ctx context.Context, email, contactName, rentalObjectCode string, createdAt time.Time) error {
	subject := fmt.Sprintf("Keys for %s have not been picked up", rentalObjectCode)
	body := fmt.Sprintf("A key loan for %s created on %s has not been picked up yet. Please follow up with %s.",
		rentalObjectCode, createdAt.Format("2006-01-02"), contactName)
	return s.send(email, "", subject, body)
}

func (s *emailService) SendStaleOrderNotification(ctx context.Context, email string, event *domain.KeyEvent) error {
	subject := "Locksmith order still outstanding"
	body := fmt.Sprintf("%s order #%d placed on %s is still marked ORDERED (%d keys). Check with the locksmith.",
		event.Type, event.ID, event.CreatedOn.Format("2006-01-02"), len(event.KeyIDs))
	return s.send(email, "", subject, body)
}
