package whatsapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/nexus/zapcampaign/internal/models"
)

// campaignGroup is everything derived for one event key.
type campaignGroup struct {
	eventKey     string
	participants []string
	description  string
	admins       []string
	records      []models.CampaignRecord
}

// groupRecords clusters records by EventKey, keeping keys in order of first
// appearance. Participants keep duplicates; the description is the first
// non-empty one seen for the key.
func groupRecords(records []models.CampaignRecord) []*campaignGroup {
	var groups []*campaignGroup
	byKey := make(map[string]*campaignGroup)

	for _, rec := range records {
		g, ok := byKey[rec.EventKey]
		if !ok {
			g = &campaignGroup{eventKey: rec.EventKey}
			byKey[rec.EventKey] = g
			groups = append(groups, g)
		}
		g.records = append(g.records, rec)
		g.participants = append(g.participants, rec.Person)
		if g.description == "" && rec.Description != "" {
			g.description = rec.Description
		}
		if rec.RespRole1 != "" {
			g.admins = append(g.admins, rec.RespRole1)
		}
		if rec.RespRole2 != "" {
			g.admins = append(g.admins, rec.RespRole2)
		}
	}
	return groups
}

// CreateGroupsAndSendMessages creates one group per event key with the
// campaign photo and, once the group exists and has settled, posts every
// record's messages to it. A key whose group could not be created gets no
// messages and processing moves on.
func (s *Service) CreateGroupsAndSendMessages(ctx context.Context, records []models.CampaignRecord) ([]models.CampaignResult, error) {
	if len(records) == 0 {
		return nil, invalid(ErrInvalidGroup, "no records")
	}
	for _, rec := range records {
		if rec.EventKey == "" {
			return nil, invalid(ErrInvalidGroup, "record without event key")
		}
	}

	defer s.lock()()

	groups := groupRecords(records)
	results := make([]models.CampaignResult, 0, len(groups))
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		out := models.CampaignResult{EventKey: g.eventKey, Messages: models.Report{Outcomes: []models.Outcome{}}}
		group, err := s.createGroup(ctx, models.GroupSpec{
			Name:             g.eventKey,
			ParticipantNames: g.participants,
			Description:      g.description,
			AdminNames:       g.admins,
			PhotoPath:        s.campaign.PhotoPath,
		})
		out.Group = group
		if err != nil {
			results = append(results, out)
			return results, err
		}
		if !group.Created() {
			s.log.Warn("skipping messages, group not created", zap.String("event", g.eventKey))
			results = append(results, out)
			continue
		}

		if err := s.sleep(ctx, s.campaign.SettleDelay); err != nil {
			results = append(results, out)
			return results, err
		}

		for _, rec := range g.records {
			for _, msg := range rec.Messages() {
				if msg == "" {
					continue
				}
				if err := ctx.Err(); err != nil {
					results = append(results, out)
					return results, err
				}
				out.Messages.Add(s.sendStep(models.ResolvedRecipient{Name: rec.Person, EndpointID: group.GroupID}, stepText, func() (string, error) {
					return s.Session.SendText(ctx, group.GroupID, msg)
				}))
			}
		}
		s.log.Info("messages sent for group",
			zap.String("event", g.eventKey),
			zap.Int("sent", out.Messages.Sent),
			zap.Int("failed", out.Messages.Failed))
		results = append(results, out)
	}
	return results, nil
}
