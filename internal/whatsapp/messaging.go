package whatsapp

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

const (
	stepText = "text"
	stepPoll = "poll"
)

// SendToNumber sends one text message to a raw phone number.
func (s *Service) SendToNumber(ctx context.Context, number, message string) (string, error) {
	to, err := PhoneEndpoint(number)
	if err != nil {
		return "", err
	}
	if message == "" {
		return "", invalid(ErrEmptyMessage, "")
	}

	defer s.lock()()
	return s.Session.SendText(ctx, to, message)
}

func (s *Service) SendGroupMessage(ctx context.Context, groupID, message string) (string, error) {
	if groupID == "" {
		return "", invalid(ErrInvalidGroup, "groupId required")
	}
	if message == "" {
		return "", invalid(ErrEmptyMessage, "")
	}

	defer s.lock()()
	return s.Session.SendText(ctx, groupID, message)
}

// SendText sends message to every contact matching names. A failed send is
// recorded and the loop moves on to the next recipient.
func (s *Service) SendText(ctx context.Context, names []string, message string) (models.Report, error) {
	if message == "" {
		return models.Report{}, invalid(ErrEmptyMessage, "")
	}

	defer s.lock()()
	return s.fanOut(ctx, names, func(ctx context.Context, rcpt models.ResolvedRecipient, report *models.Report) {
		report.Add(s.sendStep(rcpt, stepText, func() (string, error) {
			return s.Session.SendText(ctx, rcpt.EndpointID, message)
		}))
	})
}

func (s *Service) SendPoll(ctx context.Context, names []string, poll models.Poll) (models.Report, error) {
	if err := validatePoll(poll); err != nil {
		return models.Report{}, err
	}

	defer s.lock()()
	return s.fanOut(ctx, names, func(ctx context.Context, rcpt models.ResolvedRecipient, report *models.Report) {
		report.Add(s.sendStep(rcpt, stepPoll, func() (string, error) {
			return s.Session.SendPoll(ctx, rcpt.EndpointID, poll)
		}))
	})
}

// SendTextThenPoll sends the text and then the poll to each recipient. The
// poll is attempted even when the text fails.
func (s *Service) SendTextThenPoll(ctx context.Context, names []string, message string, poll models.Poll) (models.Report, error) {
	if message == "" {
		return models.Report{}, invalid(ErrEmptyMessage, "")
	}
	if err := validatePoll(poll); err != nil {
		return models.Report{}, err
	}

	defer s.lock()()
	return s.fanOut(ctx, names, func(ctx context.Context, rcpt models.ResolvedRecipient, report *models.Report) {
		report.Add(s.sendStep(rcpt, stepText, func() (string, error) {
			return s.Session.SendText(ctx, rcpt.EndpointID, message)
		}))
		report.Add(s.sendStep(rcpt, stepPoll, func() (string, error) {
			return s.Session.SendPoll(ctx, rcpt.EndpointID, poll)
		}))
	})
}

// fanOut resolves names and calls send once per recipient. Unresolved names
// are reported as not_found. It stops early only when ctx is done.
func (s *Service) fanOut(ctx context.Context, names []string, send func(context.Context, models.ResolvedRecipient, *models.Report)) (models.Report, error) {
	report := models.Report{Outcomes: []models.Outcome{}}

	res, err := s.resolve(ctx, names)
	if err != nil {
		return report, err
	}
	for _, name := range res.Missing {
		report.Add(models.Outcome{Target: name, Status: models.StatusNotFound})
	}

	for _, rcpt := range res.Recipients {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		send(ctx, rcpt, &report)
	}
	return report, nil
}

func (s *Service) sendStep(rcpt models.ResolvedRecipient, step string, send func() (string, error)) models.Outcome {
	out := models.Outcome{Target: rcpt.Name, Endpoint: rcpt.EndpointID, Step: step, Status: models.StatusSent}
	id, err := send()
	if err != nil {
		out.Status = models.StatusFailed
		out.Error = err.Error()
		s.log.Warn("send failed",
			zap.String("name", rcpt.Name),
			zap.String("endpoint", rcpt.EndpointID),
			zap.String("step", step),
			zap.Error(err))
		return out
	}
	s.log.Debug("sent", zap.String("name", rcpt.Name), zap.String("step", step), zap.String("message_id", id))
	return out
}

func validatePoll(poll models.Poll) error {
	if strings.TrimSpace(poll.Question) == "" {
		return invalid(ErrEmptyPollQuestion, "")
	}
	if len(poll.Options) == 0 {
		return invalid(ErrEmptyPollOptions, "")
	}
	for _, opt := range poll.Options {
		if strings.TrimSpace(opt) == "" {
			return invalid(ErrEmptyPollOptions, "blank option")
		}
	}
	if _, err := pollSecret(poll.MessageSecret); err != nil {
		return err
	}
	return nil
}
