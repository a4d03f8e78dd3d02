package whatsapp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

// MaxInterval caps the delay between two group creations, in milliseconds.
const MaxInterval = int64(24 * time.Hour / time.Millisecond)

// BatchSpec is the input of CreateGroups. Every group shares the
// participants and settings; intervals are in milliseconds.
type BatchSpec struct {
	GroupNames     []string
	Names          []string
	MinInterval    int64
	MaxInterval    int64
	Description    string
	AdminNames     []string
	AdminsOnlyEdit bool
}

func BatchFromRequest(req models.CreateMultipleGroupsRequest) BatchSpec {
	return BatchSpec{
		GroupNames:     req.GroupNames,
		Names:          req.Names,
		MinInterval:    req.MinInterval,
		MaxInterval:    req.MaxInterval,
		Description:    req.Description,
		AdminNames:     req.Admins,
		AdminsOnlyEdit: req.SetInfoAdminsOnly,
	}
}

func (b BatchSpec) validate() error {
	if len(b.GroupNames) == 0 {
		return invalid(ErrInvalidGroup, "group names required")
	}
	if len(b.Names) == 0 {
		return invalid(ErrInvalidGroup, "participant names required")
	}
	if b.MinInterval < 0 || b.MaxInterval < 0 {
		return invalid(ErrInvalidInterval, "intervals must not be negative")
	}
	if b.MaxInterval > MaxInterval {
		return invalid(ErrInvalidInterval, fmt.Sprintf("maxInterval %d exceeds %d", b.MaxInterval, MaxInterval))
	}
	if b.MinInterval > b.MaxInterval {
		return invalid(ErrInvalidInterval, fmt.Sprintf("minInterval %d > maxInterval %d", b.MinInterval, b.MaxInterval))
	}
	return nil
}

// CreateGroups creates the groups one after another in input order. Between
// two creations it waits a random delay drawn from [MinInterval,
// MaxInterval]; the wait starts only after the previous group is fully set
// up. Results are returned for every group attempted, even on error.
func (s *Service) CreateGroups(ctx context.Context, batch BatchSpec) ([]models.GroupResult, error) {
	if err := batch.validate(); err != nil {
		return nil, err
	}

	defer s.lock()()

	results := make([]models.GroupResult, 0, len(batch.GroupNames))
	for i, name := range batch.GroupNames {
		if i > 0 {
			delay := s.interval(batch.MinInterval, batch.MaxInterval)
			s.log.Debug("waiting before next group", zap.Duration("delay", delay), zap.String("group", name))
			if err := s.sleep(ctx, delay); err != nil {
				return results, err
			}
		}

		res, err := s.createGroup(ctx, models.GroupSpec{
			Name:             name,
			ParticipantNames: batch.Names,
			Description:      batch.Description,
			AdminNames:       batch.AdminNames,
			AdminsOnlyEdit:   batch.AdminsOnlyEdit,
		})
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// interval draws uniformly from [minMs, maxMs].
func (s *Service) interval(minMs, maxMs int64) time.Duration {
	ms := minMs
	if maxMs > minMs {
		ms += s.int64n(maxMs - minMs + 1)
	}
	return time.Duration(ms) * time.Millisecond
}
