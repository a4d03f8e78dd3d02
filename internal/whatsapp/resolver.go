package whatsapp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

// Resolution is the outcome of matching names against the address book.
type Resolution struct {
	Recipients []models.ResolvedRecipient
	Missing    []string
}

func (r Resolution) EndpointIDs() []string {
	ids := make([]string, 0, len(r.Recipients))
	for _, rcpt := range r.Recipients {
		ids = append(ids, rcpt.EndpointID)
	}
	return ids
}

// resolve fetches a fresh contact snapshot and binds each name to the first
// contact whose display, push or short name equals it. Unmatched names are
// logged and reported in Missing; an empty result is not an error.
func (s *Service) resolve(ctx context.Context, names []string) (Resolution, error) {
	contacts, err := s.Session.Contacts(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("fetch contacts: %w", err)
	}
	res := matchContacts(contacts, names)
	if len(res.Missing) > 0 {
		s.log.Warn("contacts not found", zap.Strings("names", res.Missing))
	}
	return res, nil
}

func matchContacts(contacts []models.Contact, names []string) Resolution {
	var res Resolution
	for _, name := range names {
		found := false
		for _, c := range contacts {
			if c.Matches(name) {
				res.Recipients = append(res.Recipients, models.ResolvedRecipient{Name: name, EndpointID: c.EndpointID})
				found = true
				break
			}
		}
		if !found {
			res.Missing = append(res.Missing, name)
		}
	}
	return res
}

// Resolve is the locked form of resolve.
func (s *Service) Resolve(ctx context.Context, names []string) (Resolution, error) {
	defer s.lock()()
	return s.resolve(ctx, names)
}
