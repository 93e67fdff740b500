package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sendgrid/rest"

	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

// ErrDisabled is returned by Send when no API key or sender is configured.
var ErrDisabled = errors.New("sendgrid is not configured")

// Message is a single transactional email.
type Message struct {
	ToName    string
	ToEmail   string
	Subject   string
	PlainText string
	HTML      string
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Client sends mail through the SendGrid v3 API.
type Client struct {
	api  sendClient
	from *mail.Email
}

// NewClient returns a client; when SendGrid is not configured the client is
// returned disabled rather than failing startup.
func NewClient(ctx context.Context, cfg config.SendgridConfig, logg *logger.Logger) *Client {
	if !cfg.Enabled() {
		if logg != nil {
			logg.Warn(ctx, "sendgrid not configured; emails will be skipped")
		}
		return &Client{}
	}
	return &Client{
		api:  sg.NewSendClient(strings.TrimSpace(cfg.APIKey)),
		from: mail.NewEmail(cfg.FromName, strings.TrimSpace(cfg.DefaultFrom)),
	}
}

func newWithAPI(api sendClient, fromName, fromEmail string) *Client {
	return &Client{api: api, from: mail.NewEmail(fromName, fromEmail)}
}

// Enabled reports whether Send will attempt delivery.
func (c *Client) Enabled() bool {
	return c != nil && c.api != nil && c.from != nil
}

// Send delivers msg. Non-2xx responses are returned as errors.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if strings.TrimSpace(msg.ToEmail) == "" {
		return errors.New("recipient email is required")
	}

	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	email := mail.NewSingleEmail(c.from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := c.api.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}
