package email

import (
	"context"

	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// TemplateRenderer renders a named template against a notification context.
// Implemented by Renderer; tests substitute fakes.
type TemplateRenderer interface {
	Render(filename string, data types.NotificationContext) (string, error)
}

// EmailChannel is the mail stage of the pipeline. It renders the selected
// template, composes the outbound message, and delivers it via the Sender.
//
// All failures inside this boundary — template load/render errors and
// transport errors alike — are logged and converted to a boolean outcome.
// The orchestrator never sees an error from the mail stage.
type EmailChannel struct {
	renderer TemplateRenderer
	sender   Sender
	from     string
	logger   types.Logger
}

// EmailChannelConfig holds the dependencies needed to create an EmailChannel.
type EmailChannelConfig struct {
	Renderer TemplateRenderer
	Sender   Sender
	From     string
	Logger   types.Logger
}

// NewEmailChannel creates a new EmailChannel with the given dependencies.
func NewEmailChannel(cfg EmailChannelConfig) *EmailChannel {
	return &EmailChannel{
		renderer: cfg.Renderer,
		sender:   cfg.Sender,
		from:     cfg.From,
		logger:   cfg.Logger,
	}
}

// Deliver renders and sends the notification email. It returns true only if
// the message was handed to the transport successfully.
func (c *EmailChannel) Deliver(ctx context.Context, t types.TemplateType, nctx types.NotificationContext, recipient string) bool {
	body, err := c.renderer.Render(t.Filename(), nctx)
	if err != nil {
		c.logger.Error("failed to render email template",
			"template", t.Filename(),
			"error", err.Error(),
		)
		return false
	}

	msg := OutboundMessage{
		From:     c.from,
		To:       recipient,
		Subject:  t.EmailSubject(),
		BodyHTML: body,
	}

	if err := c.sender.Send(msg); err != nil {
		c.logger.Error("failed to send email",
			"recipient", recipient,
			"template_type", t.Tag,
			"error", err.Error(),
		)
		return false
	}

	c.logger.Info("email sent successfully",
		"recipient", recipient,
		"template_type", t.Tag,
	)
	return true
}
