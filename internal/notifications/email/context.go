package email

import (
	"encoding/json"
	"fmt"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// ContextBuilder assembles the NotificationContext for a template type from
// the immutable notification configuration. Each field is sourced from
// exactly one configuration value; absent optional values are carried
// through as empty strings rather than causing failure.
type ContextBuilder struct {
	cfg    config.NotificationConfig
	logger types.Logger
}

// NewContextBuilder creates a ContextBuilder over the given configuration.
func NewContextBuilder(cfg config.NotificationConfig, logger types.Logger) *ContextBuilder {
	return &ContextBuilder{cfg: cfg, logger: logger}
}

// Build returns the context shape for the template type:
//
//	welcome:   user_name, user_email, company_name, user_role
//	marketing: company_name, marketing_team_email, users,
//	           subscription_tier, next_actions
//
// Unknown template types fail with ErrCodeTemplateUnsupported; this is the
// strict half of the selection asymmetry (filename lookup already tolerated
// the tag).
func (b *ContextBuilder) Build(t types.TemplateType) (types.NotificationContext, error) {
	switch t.Kind {
	case types.TemplateWelcome:
		return types.NotificationContext{
			"user_name":    b.cfg.UserName,
			"user_email":   b.cfg.UserEmail,
			"company_name": b.cfg.CompanyName,
			"user_role":    b.cfg.UserRole,
		}, nil
	case types.TemplateMarketing:
		return types.NotificationContext{
			"company_name":         b.cfg.CompanyName,
			"marketing_team_email": b.cfg.MarketingTeamEmail,
			"users":                b.decodeUsers(),
			"subscription_tier":    b.cfg.SubscriptionTier,
			"next_actions":         b.cfg.NextActions,
		}, nil
	default:
		return nil, types.NewAppError(
			types.ErrCodeTemplateUnsupported,
			fmt.Sprintf("unknown template type: %s", t.Tag),
			nil,
		)
	}
}

// decodeUsers parses the JSON-encoded bulk users list. Malformed input is
// logged and degrades to an empty collection; it never fails the run.
func (b *ContextBuilder) decodeUsers() []types.UserRecord {
	raw := b.cfg.UsersJSON
	if raw == "" {
		raw = "[]"
	}

	var users []types.UserRecord
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		b.logger.Error("invalid USERS_JSON format, substituting empty list",
			"error", err.Error(),
		)
		return []types.UserRecord{}
	}
	if users == nil {
		users = []types.UserRecord{}
	}
	return users
}
