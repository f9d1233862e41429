package types

// NotificationContext is the assembled field set fed to both the template
// renderer and the event composer. It is built once per run, from
// configuration, and treated as a read-only snapshot afterwards.
//
// Absent values are carried as empty strings rather than causing failure;
// only the top-level required configuration set is validated strictly.
type NotificationContext map[string]any

// StringField returns the named field as a string, or "" when the field is
// absent or not a string. Composers use this so a missing or oddly-typed
// field degrades to an empty value instead of propagating an error.
func (c NotificationContext) StringField(key string) string {
	if c == nil {
		return ""
	}
	v, ok := c[key].(string)
	if !ok {
		return ""
	}
	return v
}

// UserRecord is a single entry of the bulk "users" collection consumed by
// the marketing notification template.
type UserRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
