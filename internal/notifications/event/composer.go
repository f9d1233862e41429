// Package event builds and publishes the CloudEvents-style record emitted
// after a notification email is composed. Event identity is content-
// addressed: the subject and id embed a short hash of a template-specific
// identity field, so identical input yields identical identifiers across
// runs.
package event

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// specVersion is the CloudEvents spec version tag carried on every record.
const specVersion = "1.0"

// fragmentLen is the number of hex characters of the identity digest
// embedded in event subjects and ids.
const fragmentLen = 8

// Event is the schema-tagged notification record published to the bus.
// Field names follow the CloudEvents attribute vocabulary.
type Event struct {
	SpecVersion     string         `json:"specversion"`
	Type            string         `json:"type"`
	Source          string         `json:"source"`
	Subject         string         `json:"subject"`
	ID              string         `json:"id"`
	Time            string         `json:"time"`
	DataContentType string         `json:"datacontenttype"`
	Data            map[string]any `json:"data"`
}

// Composer derives a NotificationEvent from a template type and the same
// context that was used for rendering. Composition is best-effort telemetry:
// it never fails the run, and absent fields surface as empty values in the
// data payload rather than errors.
type Composer struct {
	cfg   config.NotificationConfig
	clock types.Clock
}

// NewComposer creates a Composer. The clock is injectable for deterministic
// timestamps in tests; pass types.RealClock{} in production.
func NewComposer(cfg config.NotificationConfig, clock types.Clock) *Composer {
	return &Composer{cfg: cfg, clock: clock}
}

// Compose builds the event for the given template type and context.
//
// subject = "<template>-email-sent-<fragment>" where fragment is the first
// 8 hex characters of SHA-256 over the identity field; id = "evt-email-" +
// the first 8 characters of the subject. Two runs with the same identity
// input produce the same subject/id prefix.
func (c *Composer) Compose(t types.TemplateType, nctx types.NotificationContext) Event {
	fragment := identityFragment(c.identityFor(t, nctx))
	subject := fmt.Sprintf("%s-email-sent-%s", t.Tag, fragment)

	return Event{
		SpecVersion:     specVersion,
		Type:            t.EventType(),
		Source:          c.cfg.EventSource,
		Subject:         subject,
		ID:              "evt-email-" + truncate(subject, fragmentLen),
		Time:            c.clock.Now().UTC().Format(time.RFC3339),
		DataContentType: "application/json",
		Data:            c.dataFor(t, nctx),
	}
}

// identityFor selects the identity field the content hash is computed over:
// the recipient's email for welcome mail (falling back to the marketing team
// address), the company name for marketing mail. Unknown types use whatever
// identity is available, ending with the tag itself so the fragment is still
// deterministic.
func (c *Composer) identityFor(t types.TemplateType, nctx types.NotificationContext) string {
	switch t.Kind {
	case types.TemplateWelcome:
		if email := nctx.StringField("user_email"); email != "" {
			return email
		}
		return c.cfg.MarketingTeamEmail
	case types.TemplateMarketing:
		return nctx.StringField("company_name")
	default:
		if email := c.unknownEmail(nctx); email != "" {
			return email
		}
		if company := c.unknownCompany(nctx); company != "" {
			return company
		}
		return t.Tag
	}
}

// unknownEmail and unknownCompany resolve identity fields for unrecognized
// template types, preferring the assembled context and falling back to the
// raw configuration.
func (c *Composer) unknownEmail(nctx types.NotificationContext) string {
	if email := nctx.StringField("user_email"); email != "" {
		return email
	}
	return c.cfg.UserEmail
}

func (c *Composer) unknownCompany(nctx types.NotificationContext) string {
	if company := nctx.StringField("company_name"); company != "" {
		return company
	}
	return c.cfg.CompanyName
}

// dataFor returns the template-type-specific subset of the context carried
// in the event's data payload.
func (c *Composer) dataFor(t types.TemplateType, nctx types.NotificationContext) map[string]any {
	switch t.Kind {
	case types.TemplateWelcome:
		return map[string]any{
			"user_name":    nctx.StringField("user_name"),
			"user_email":   nctx.StringField("user_email"),
			"company_name": nctx.StringField("company_name"),
			"user_role":    nctx.StringField("user_role"),
		}
	case types.TemplateMarketing:
		return map[string]any{
			"company_name":         nctx.StringField("company_name"),
			"marketing_team_email": nctx.StringField("marketing_team_email"),
			"subscription_tier":    nctx.StringField("subscription_tier"),
			"next_actions":         nctx.StringField("next_actions"),
		}
	default:
		data := map[string]any{"template_type": t.Tag}
		if company := c.unknownCompany(nctx); company != "" {
			data["company_name"] = company
		}
		if email := c.unknownEmail(nctx); email != "" {
			data["user_email"] = email
		}
		return data
	}
}

// identityFragment computes the content-addressed fragment: the first 8 hex
// characters of the SHA-256 digest of the UTF-8 identity string.
func identityFragment(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:])[:fragmentLen]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
