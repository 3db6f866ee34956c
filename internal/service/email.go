package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"rental-marketplace-backend/internal/domain"
	"rental-marketplace-backend/internal/logger"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendGridEmailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid backed mailer, or nil when no API key
// is configured.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return nil
	}
	return &sendGridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridEmailService) send(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail(toName, toEmail), plainText, html)

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *sendGridEmailService) SendOrderConfirmation(ctx context.Context, user *domain.User, order *domain.Order) error {
	subject := fmt.Sprintf("Order %s received", order.ID)

	var lines strings.Builder
	for _, it := range order.Items {
		fmt.Fprintf(&lines, "- %s x%d (%s) @ %s\n", it.ProductID, it.Quantity, it.Color, it.UnitPrice.StringFixed(2))
	}
	plainText := fmt.Sprintf("Hello %s,\n\nWe received your order.\n\n%s\nTotal: %s\nDiscount: %s\nPayable: %s\nPayment: %s\n",
		user.Name, lines.String(), order.TotalAmount.StringFixed(2), order.Discount.StringFixed(2),
		order.FinalAmount.StringFixed(2), order.PaymentMethod)
	html := fmt.Sprintf(`<html><body><h2>Order received</h2><p>Hello %s,</p><p>Payable: <strong>%s</strong></p></body></html>`,
		user.Name, order.FinalAmount.StringFixed(2))

	return s.send(ctx, user.Email, user.Name, subject, plainText, html)
}
