package email

import (
	"fmt"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// Selector resolves the recipient address for a template type. Filename,
// subject line and event type are pure functions of the tag and live on
// types.TemplateType; the recipient depends on configuration, so it is
// resolved here.
//
// Note the deliberate asymmetry: filename/subject lookup tolerates unknown
// tags (derived fallback names), but recipient resolution rejects them.
type Selector struct {
	cfg config.NotificationConfig
}

// NewSelector creates a Selector over the given notification configuration.
func NewSelector(cfg config.NotificationConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Recipient returns the destination address for the template type: the
// onboarded user for welcome mail, the marketing team for marketing mail.
// Unknown template types fail with ErrCodeTemplateUnsupported.
func (s *Selector) Recipient(t types.TemplateType) (string, error) {
	switch t.Kind {
	case types.TemplateWelcome:
		return s.cfg.UserEmail, nil
	case types.TemplateMarketing:
		return s.cfg.MarketingTeamEmail, nil
	default:
		return "", types.NewAppError(
			types.ErrCodeTemplateUnsupported,
			fmt.Sprintf("unknown template type: %s", t.Tag),
			nil,
		)
	}
}
