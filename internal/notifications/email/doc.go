// Package email implements the mail half of the notification pipeline:
// template selection, context assembly, HTML rendering against embedded
// templates, and delivery over an authenticated SMTP session.
//
// The delivery boundary is EmailChannel.Deliver, which converts every
// render or transport failure into a logged boolean outcome. No error ever
// escapes the mail stage; the orchestrator consumes only the bool.
package email
