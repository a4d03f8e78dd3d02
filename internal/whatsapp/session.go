package whatsapp

import (
	"context"
	"errors"

	"github.com/nexus/zapcampaign/internal/models"
)

// Session is the long-lived WhatsApp connection every request shares.
// Endpoint identifiers are JID strings ("5511999999999@s.whatsapp.net",
// "1203630xxxx@g.us").
type Session interface {
	Contacts(ctx context.Context) ([]models.Contact, error)

	SendText(ctx context.Context, to, text string) (string, error)
	SendPoll(ctx context.Context, to string, poll models.Poll) (string, error)

	CreateGroup(ctx context.Context, name string, participants []string) (string, error)
	SetGroupDescription(ctx context.Context, groupID, description string) error
	PromoteParticipants(ctx context.Context, groupID string, participants []string) error
	SetGroupInfoAdminsOnly(ctx context.Context, groupID string, adminsOnly bool) error
	SetGroupPhoto(ctx context.Context, groupID string, jpeg []byte) error

	Connected() bool
	QRCode() (string, bool)
	Logout(ctx context.Context) error
}

var (
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrEmptyPollOptions     = errors.New("poll options must not be empty")
	ErrEmptyPollQuestion    = errors.New("poll question must not be empty")
	ErrInvalidMessageSecret = errors.New("message secret must be 32 values between 0 and 255")
	ErrInvalidInterval      = errors.New("invalid interval")
	ErrInvalidGroup         = errors.New("invalid group")
	ErrEmptyMessage         = errors.New("message must not be empty")
	ErrNotConnected         = errors.New("whatsapp session not connected")
)

// ValidationError marks errors caused by the caller's input.
type ValidationError struct {
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(err error, detail string) error {
	return &ValidationError{Err: err, Detail: detail}
}

// IsValidation reports whether err was caused by bad input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
