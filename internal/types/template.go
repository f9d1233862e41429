package types

import "fmt"

// TemplateKind discriminates the supported template families.
type TemplateKind int

const (
	// TemplateWelcome is the per-user welcome notification.
	TemplateWelcome TemplateKind = iota
	// TemplateMarketing is the company-onboarded marketing notification.
	TemplateMarketing
	// TemplateOther covers any unrecognized selector tag. Filename, subject
	// and event type still resolve through derived fallbacks; context
	// assembly and recipient resolution reject it.
	TemplateOther
)

// TemplateType is the resolved template selector: a closed kind plus the raw
// tag it was parsed from. It is determined once per run and never mutated.
type TemplateType struct {
	Kind TemplateKind
	Tag  string
}

// ParseTemplateType resolves a raw selector tag. Tags are case-sensitive;
// anything other than the two known tags maps to TemplateOther with the tag
// preserved verbatim.
func ParseTemplateType(tag string) TemplateType {
	switch tag {
	case "welcome":
		return TemplateType{Kind: TemplateWelcome, Tag: tag}
	case "marketing":
		return TemplateType{Kind: TemplateMarketing, Tag: tag}
	default:
		return TemplateType{Kind: TemplateOther, Tag: tag}
	}
}

// Filename returns the HTML template file for this type. Unknown tags derive
// a filename from the tag rather than failing here.
func (t TemplateType) Filename() string {
	switch t.Kind {
	case TemplateWelcome:
		return "welcome_email.html"
	case TemplateMarketing:
		return "marketing_notification.html"
	default:
		return fmt.Sprintf("%s_email.html", t.Tag)
	}
}

// EmailSubject returns the mail subject line for this type.
func (t TemplateType) EmailSubject() string {
	switch t.Kind {
	case TemplateWelcome:
		return "Welcome to Knapscen!"
	case TemplateMarketing:
		return "New Company Onboarded - Marketing Notification"
	default:
		return "Notification"
	}
}

// EventType returns the CloudEvents type attribute for this template.
func (t TemplateType) EventType() string {
	switch t.Kind {
	case TemplateMarketing:
		return fmt.Sprintf("disco.knapscen.email.%s.notified", t.Tag)
	default:
		return fmt.Sprintf("disco.knapscen.email.%s.sent", t.Tag)
	}
}

// String returns the raw selector tag.
func (t TemplateType) String() string {
	return t.Tag
}
