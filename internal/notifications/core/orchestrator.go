// Package core sequences the notification pipeline: template resolution,
// context assembly, mail delivery, event composition and publication. It
// owns the failure-isolation policy between the mail and publish stages and
// produces the run's final verdict.
package core

import (
	"context"
	"strings"

	"github.com/colinjlacy/knapscen-email-notifications/internal/notifications/event"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// runState labels the orchestrator's position in the pipeline, for logging.
type runState string

const (
	stateStart            runState = "START"
	stateTemplateResolved runState = "TEMPLATE_RESOLVED"
	stateMailSent         runState = "MAIL_SENT"
	stateEventPublished   runState = "EVENT_PUBLISHED"
	stateDone             runState = "DONE"
	stateAborted          runState = "ABORTED"
)

// ContextBuilder assembles the notification context for a template type.
type ContextBuilder interface {
	Build(t types.TemplateType) (types.NotificationContext, error)
}

// RecipientResolver resolves the destination address for a template type.
type RecipientResolver interface {
	Recipient(t types.TemplateType) (string, error)
}

// Deliverer is the mail stage boundary. Implementations convert all render
// and transport failures into the returned boolean.
type Deliverer interface {
	Deliver(ctx context.Context, t types.TemplateType, nctx types.NotificationContext, recipient string) bool
}

// EventComposer derives the notification event from the rendering context.
type EventComposer interface {
	Compose(t types.TemplateType, nctx types.NotificationContext) event.Event
}

// EventPublisher is the publish stage boundary; failures are reduced to the
// returned boolean.
type EventPublisher interface {
	Publish(ctx context.Context, evt event.Event) bool
}

// Verdict is the orchestrator's final outcome.
//
// CAUTION: OK() is "fully confirmed", not "mail delivered". A failed
// publication after a successful send downgrades the verdict to false even
// though the recipient genuinely received the email. Callers deciding
// whether to re-run must check MailSent, not just OK().
type Verdict struct {
	Template       types.TemplateType
	MailSent       bool
	EventPublished bool
}

// OK reports whether both the mail and publish stages succeeded.
func (v Verdict) OK() bool {
	return v.MailSent && v.EventPublished
}

// Orchestrator runs the pipeline once, strictly sequentially: the mail stage
// fully completes (success or failure) before publication is attempted, and
// each external connection is scoped to its own stage.
type Orchestrator struct {
	template   string
	contexts   ContextBuilder
	recipients RecipientResolver
	deliverer  Deliverer
	composer   EventComposer
	publisher  EventPublisher
	logger     types.Logger
}

// OrchestratorConfig holds the dependencies needed to create an Orchestrator.
type OrchestratorConfig struct {
	// Template is the raw template selector from configuration.
	Template   string
	Contexts   ContextBuilder
	Recipients RecipientResolver
	Deliverer  Deliverer
	Composer   EventComposer
	Publisher  EventPublisher
	Logger     types.Logger
}

// NewOrchestrator creates a new Orchestrator with the given dependencies.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		template:   cfg.Template,
		contexts:   cfg.Contexts,
		recipients: cfg.Recipients,
		deliverer:  cfg.Deliverer,
		composer:   cfg.Composer,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
	}
}

// Run executes the pipeline and returns the final verdict.
//
// A nil error with a false verdict means a stage failed softly (mail or
// publish); a non-nil error means a fatal condition (unsupported template)
// aborted the run before any further side effect. Configuration errors
// never reach Run; the loader rejects them first.
func (o *Orchestrator) Run(ctx context.Context) (Verdict, error) {
	v := Verdict{}

	// START: an absent or empty selector aborts with a false verdict.
	if strings.TrimSpace(o.template) == "" {
		o.logger.Error("no email template selector configured", "state", string(stateAborted))
		return v, nil
	}

	t := types.ParseTemplateType(o.template)
	v.Template = t

	o.logger.Info("processing email notification",
		"template_type", t.Tag,
		"state", string(stateStart),
	)

	// Context and recipient resolution reject unknown template tags; this
	// is fatal for the run and surfaces at the process boundary.
	nctx, err := o.contexts.Build(t)
	if err != nil {
		return v, err
	}
	recipient, err := o.recipients.Recipient(t)
	if err != nil {
		return v, err
	}

	o.logger.Info("template resolved",
		"template_file", t.Filename(),
		"recipient", recipient,
		"state", string(stateTemplateResolved),
	)

	// Mail stage. On failure the run aborts: publication is NOT attempted
	// for mail that was never sent.
	v.MailSent = o.deliverer.Deliver(ctx, t, nctx, recipient)
	if !v.MailSent {
		o.logger.Error("email delivery failed, skipping event publication",
			"template_type", t.Tag,
			"state", string(stateAborted),
		)
		return v, nil
	}

	o.logger.Info("mail stage complete", "state", string(stateMailSent))

	// Publish stage. The event is derived from the same context that was
	// rendered. A publish failure is a warning — the mail already went out
	// and is not undone — but it is reflected in the final verdict.
	evt := o.composer.Compose(t, nctx)
	v.EventPublished = o.publisher.Publish(ctx, evt)
	if !v.EventPublished {
		o.logger.Warn("email sent but event publication failed; verdict downgraded",
			"template_type", t.Tag,
			"event_id", evt.ID,
			"state", string(stateDone),
		)
		return v, nil
	}

	o.logger.Info("notification pipeline complete",
		"event_id", evt.ID,
		"state", string(stateDone),
	)
	return v, nil
}
