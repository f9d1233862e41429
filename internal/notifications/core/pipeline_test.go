package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	emailpkg "github.com/colinjlacy/knapscen-email-notifications/internal/notifications/email"
	"github.com/colinjlacy/knapscen-email-notifications/internal/notifications/event"
)

// capturingSender implements email.Sender, recording the composed message.
type capturingSender struct {
	sent []emailpkg.OutboundMessage
}

func (s *capturingSender) Send(msg emailpkg.OutboundMessage) error {
	s.sent = append(s.sent, msg)
	return nil
}

// capturingPublisher implements EventPublisher, recording published events.
type capturingPublisher struct {
	events []event.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, evt event.Event) bool {
	p.events = append(p.events, evt)
	return true
}

type pipelineClock struct{}

func (pipelineClock) Now() time.Time {
	return time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
}

// runPipeline wires the real selector, context builder, renderer and event
// composer against capturing transports and runs the orchestrator once.
func runPipeline(t *testing.T, cfg config.NotificationConfig) (Verdict, *capturingSender, *capturingPublisher) {
	t.Helper()
	logger := newTestLogger()
	sender := &capturingSender{}
	publisher := &capturingPublisher{}

	channel := emailpkg.NewEmailChannel(emailpkg.EmailChannelConfig{
		Renderer: emailpkg.NewRenderer(),
		Sender:   sender,
		From:     "notifier@knapscen.com",
		Logger:   logger,
	})

	orch := NewOrchestrator(OrchestratorConfig{
		Template:   cfg.Template,
		Contexts:   emailpkg.NewContextBuilder(cfg, logger),
		Recipients: emailpkg.NewSelector(cfg),
		Deliverer:  channel,
		Composer:   event.NewComposer(cfg, pipelineClock{}),
		Publisher:  publisher,
		Logger:     logger,
	})

	v, err := orch.Run(context.Background())
	require.NoError(t, err)
	return v, sender, publisher
}

// Scenario: a welcome notification renders the recipient's address into the
// mail body and emits a welcome.sent event with a content-addressed subject.
func TestPipelineWelcomeNotification(t *testing.T) {
	v, sender, publisher := runPipeline(t, config.NotificationConfig{
		Template:    "welcome",
		UserName:    "Alice Johnson",
		UserEmail:   "alice@example.com",
		CompanyName: "Acme",
		UserRole:    "admin",
		EventSource: "knapscen/email-notification-service",
	})

	assert.True(t, v.OK())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Welcome to Knapscen!", msg.Subject)
	assert.Contains(t, msg.BodyHTML, "alice@example.com")

	require.Len(t, publisher.events, 1)
	evt := publisher.events[0]
	assert.Equal(t, "disco.knapscen.email.welcome.sent", evt.Type)
	assert.True(t, len(evt.Subject) == len("welcome-email-sent-")+8)
	assert.Contains(t, evt.Subject, "welcome-email-sent-")
	assert.Equal(t, "evt-email-"+evt.Subject[:8], evt.ID)
}

// Scenario: a marketing notification goes to the marketing team and emits a
// marketing.notified event.
func TestPipelineMarketingNotification(t *testing.T) {
	v, sender, publisher := runPipeline(t, config.NotificationConfig{
		Template:           "marketing",
		CompanyName:        "Acme",
		MarketingTeamEmail: "marketing@knapscen.com",
		SubscriptionTier:   "gold",
		NextActions:        "schedule onboarding call",
		UsersJSON:          `[{"name":"Bob","email":"bob@acme.com","role":"admin_user"}]`,
		EventSource:        "knapscen/email-notification-service",
	})

	assert.True(t, v.OK())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "marketing@knapscen.com", msg.To)
	assert.Contains(t, msg.BodyHTML, "bob@acme.com")

	require.Len(t, publisher.events, 1)
	evt := publisher.events[0]
	assert.Equal(t, "disco.knapscen.email.marketing.notified", evt.Type)
	assert.Contains(t, evt.Subject, "marketing-email-sent-")
	assert.Equal(t, "gold", evt.Data["subscription_tier"])
}
