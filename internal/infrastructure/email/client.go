// Package email provides the email client for high-priority lead notifications.
package email

import (
	"fmt"
	"os"
	"strings"

	"github.com/resendlabs/resend-go"

	domain "github.com/LeadPulse/leadpulse-go/internal/domain/lead"
)

// Service defines the interface for sending lead notifications, allowing
// for mock implementations in tests.
type Service interface {
	SendHighPriorityLeadAlert(lead *domain.Lead) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	toEmail   string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	toEmail := os.Getenv("LEAD_ALERT_EMAIL")
	if toEmail == "" {
		return nil, fmt.Errorf("LEAD_ALERT_EMAIL environment variable is required")
	}

	fromEmail := os.Getenv("LEAD_EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "noreply@leadpulse.app"
	}

	fromName := os.Getenv("LEAD_EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "LeadPulse"
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   toEmail,
	}, nil
}

// SendHighPriorityLeadAlert composes and sends a notification for a lead
// that crossed the high-priority threshold. The lead is a read-only
// snapshot; nothing here writes back.
func (c *ResendClient) SendHighPriorityLeadAlert(lead *domain.Lead) error {
	subject := fmt.Sprintf("High priority lead: %s (score %d)", displayName(lead), lead.Score)

	var body strings.Builder
	body.WriteString("<h2>New high priority lead</h2><table>")
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&body, "<tr><td><b>%s</b></td><td>%s</td></tr>", label, value)
		}
	}
	row("Name", lead.Name)
	row("Email", lead.Email)
	row("Phone", lead.Phone)
	row("Company", lead.Company)
	row("Interest", lead.Interest)
	row("Budget", lead.Budget)
	row("Industry", lead.Industry)
	row("Signals", strings.Join(lead.BuyingSignals, ", "))
	row("Score", fmt.Sprintf("%d", lead.Score))
	row("Language", string(lead.Language))
	body.WriteString("</table>")

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.toEmail},
		Subject: subject,
		Html:    body.String(),
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send lead alert via Resend: %w", err)
	}

	return nil
}

func displayName(lead *domain.Lead) string {
	switch {
	case lead.Name != "":
		return lead.Name
	case lead.Email != "":
		return lead.Email
	default:
		return "unknown visitor"
	}
}
