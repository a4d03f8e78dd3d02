package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

const (
	StepCreate         = "create"
	StepDescription    = "description"
	StepPromoteAdmins  = "promote_admins"
	StepInfoAdminsOnly = "info_admins_only"
	StepPhoto          = "photo"
)

// ErrNoParticipants is recorded on the create step when none of the
// participant names resolved. The session is not contacted in that case.
var ErrNoParticipants = errors.New("no valid participants found")

func (s *Service) CreateGroup(ctx context.Context, spec models.GroupSpec) (models.GroupResult, error) {
	if err := validateGroupSpec(spec); err != nil {
		return models.GroupResult{Name: spec.Name}, err
	}

	defer s.lock()()
	return s.createGroup(ctx, spec)
}

// createGroup creates the group and then applies the optional settings in
// order: description, admin promotion, admins-only info editing, photo.
// Admins are promoted before info editing is locked. Only the create step
// decides whether the group exists; later failures are recorded and logged
// but never undo it.
//
// The returned error is reserved for failures that leave the result
// meaningless (contact lookup, cancellation). A group that could not be
// created comes back with an empty GroupID and a failed create step.
func (s *Service) createGroup(ctx context.Context, spec models.GroupSpec) (models.GroupResult, error) {
	result := models.GroupResult{Name: spec.Name, Steps: []models.Outcome{}}
	log := s.log.With(zap.String("group", spec.Name))

	participants, err := s.resolve(ctx, spec.ParticipantNames)
	if err != nil {
		return result, err
	}
	if len(participants.Recipients) == 0 {
		log.Warn("no valid participants found for group")
		result.Steps = append(result.Steps, models.Outcome{
			Target: spec.Name,
			Step:   StepCreate,
			Status: models.StatusSkipped,
			Error:  ErrNoParticipants.Error(),
		})
		return result, nil
	}

	gid, err := s.Session.CreateGroup(ctx, spec.Name, participants.EndpointIDs())
	if err != nil {
		log.Error("error creating group", zap.Error(err))
		result.Steps = append(result.Steps, failedStep(spec.Name, "", StepCreate, err))
		return result, nil
	}
	result.GroupID = gid
	result.Steps = append(result.Steps, sentStep(spec.Name, gid, StepCreate))
	log = log.With(zap.String("group_id", gid))
	log.Info("group created", zap.Int("participants", len(participants.Recipients)))

	if spec.Description != "" {
		result.Steps = append(result.Steps, s.groupStep(ctx, log, spec.Name, gid, StepDescription, func(ctx context.Context) error {
			return s.Session.SetGroupDescription(ctx, gid, spec.Description)
		}))
	}

	if len(spec.AdminNames) > 0 {
		result.Steps = append(result.Steps, s.groupStep(ctx, log, spec.Name, gid, StepPromoteAdmins, func(ctx context.Context) error {
			admins, err := s.resolve(ctx, spec.AdminNames)
			if err != nil {
				return err
			}
			if len(admins.Recipients) == 0 {
				return fmt.Errorf("no admins resolved: %s", strings.Join(admins.Missing, ", "))
			}
			return s.Session.PromoteParticipants(ctx, gid, admins.EndpointIDs())
		}))
	}

	if spec.AdminsOnlyEdit {
		result.Steps = append(result.Steps, s.groupStep(ctx, log, spec.Name, gid, StepInfoAdminsOnly, func(ctx context.Context) error {
			return s.Session.SetGroupInfoAdminsOnly(ctx, gid, true)
		}))
	}

	if spec.PhotoPath != "" {
		result.Steps = append(result.Steps, s.groupStep(ctx, log, spec.Name, gid, StepPhoto, func(ctx context.Context) error {
			photo, err := s.readPhoto(spec.PhotoPath)
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			return s.Session.SetGroupPhoto(ctx, gid, photo)
		}))
	}

	return result, ctx.Err()
}

func (s *Service) groupStep(ctx context.Context, log *zap.Logger, name, gid, step string, run func(context.Context) error) models.Outcome {
	if err := ctx.Err(); err != nil {
		return failedStep(name, gid, step, err)
	}
	if err := run(ctx); err != nil {
		log.Warn("group step failed", zap.String("step", step), zap.Error(err))
		return failedStep(name, gid, step, err)
	}
	log.Info("group step done", zap.String("step", step))
	return sentStep(name, gid, step)
}

func sentStep(target, endpoint, step string) models.Outcome {
	return models.Outcome{Target: target, Endpoint: endpoint, Step: step, Status: models.StatusSent}
}

func failedStep(target, endpoint, step string, err error) models.Outcome {
	return models.Outcome{Target: target, Endpoint: endpoint, Step: step, Status: models.StatusFailed, Error: err.Error()}
}

func validateGroupSpec(spec models.GroupSpec) error {
	if strings.TrimSpace(spec.Name) == "" {
		return invalid(ErrInvalidGroup, "group name required")
	}
	if len(spec.ParticipantNames) == 0 {
		return invalid(ErrInvalidGroup, "participant names required")
	}
	return nil
}

// CreateError returns the reason a group was not created, or nil when it
// was.
func CreateError(r models.GroupResult) error {
	if r.Created() {
		return nil
	}
	for _, step := range r.Steps {
		if step.Step == StepCreate && step.Error != "" {
			if step.Status == models.StatusSkipped {
				return ErrNoParticipants
			}
			return errors.New(step.Error)
		}
	}
	return errors.New("group not created")
}
