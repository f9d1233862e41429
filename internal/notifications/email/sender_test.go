package email

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// fakeDialer records the messages handed to DialAndSend and returns a
// configurable error.
type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPSenderComposesMessage(t *testing.T) {
	dialer := &fakeDialer{}
	s := &SMTPSender{dialer: dialer, logger: newTestLogger()}

	err := s.Send(OutboundMessage{
		From:     "notifier@example.com",
		To:       "alice@example.com",
		Subject:  "Welcome to Knapscen!",
		BodyHTML: "<p>hello</p>",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	msg := dialer.sent[0]
	assert.Equal(t, []string{"notifier@example.com"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"alice@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Welcome to Knapscen!"}, msg.GetHeader("Subject"))
}

func TestSMTPSenderTransportFailure(t *testing.T) {
	dialer := &fakeDialer{err: errors.New("535 authentication failed")}
	s := &SMTPSender{dialer: dialer, logger: newTestLogger()}

	err := s.Send(OutboundMessage{To: "alice@example.com"})
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeDeliveryFailed, appErr.Code)
}
