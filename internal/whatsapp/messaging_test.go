package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus/zapcampaign/internal/models"
)

func TestSendTextContinuesPastFailures(t *testing.T) {
	session := newFakeSession(
		contact("Ana", "1@s.whatsapp.net"),
		contact("Beto", "2@s.whatsapp.net"),
		contact("Caio", "3@s.whatsapp.net"),
	)
	session.failOn["SendText:2@s.whatsapp.net"] = errors.New("rate limited")
	svc, logs, _ := newTestService(t, session)

	report, err := svc.SendText(context.Background(), []string{"Ana", "Beto", "Zé", "Caio"}, "oi")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.NotFound)
	assert.Len(t, session.callsOf("SendText"), 3)

	var failed models.Outcome
	for _, o := range report.Outcomes {
		if o.Status == models.StatusFailed {
			failed = o
		}
	}
	assert.Equal(t, "Beto", failed.Target)
	assert.Equal(t, "rate limited", failed.Error)
	assert.Equal(t, 1, logs.FilterMessage("send failed").Len())
}

func TestSendTextNoRecipientsIsNotAnError(t *testing.T) {
	session := newFakeSession()
	svc, _, _ := newTestService(t, session)

	report, err := svc.SendText(context.Background(), []string{"Ninguém"}, "oi")
	require.NoError(t, err)
	assert.Zero(t, report.Sent)
	assert.Equal(t, 1, report.NotFound)
	assert.Empty(t, session.callsOf("SendText"))
}

func TestSendTextRejectsEmptyMessage(t *testing.T) {
	svc, _, _ := newTestService(t, newFakeSession())

	_, err := svc.SendText(context.Background(), []string{"Ana"}, "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.True(t, IsValidation(err))
}

func TestSendTextStopsWhenCancelled(t *testing.T) {
	session := newFakeSession(contact("Ana", "1@s.whatsapp.net"))
	svc, _, _ := newTestService(t, session)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SendText(ctx, []string{"Ana"}, "oi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, session.callsOf("SendText"))
}

func TestSendPollValidation(t *testing.T) {
	session := newFakeSession(contact("Ana", "1@s.whatsapp.net"))
	svc, _, _ := newTestService(t, session)

	tests := []struct {
		name string
		poll models.Poll
		want error
	}{
		{"empty options", models.Poll{Question: "Vem?"}, ErrEmptyPollOptions},
		{"blank option", models.Poll{Question: "Vem?", Options: []string{"Sim", " "}}, ErrEmptyPollOptions},
		{"no question", models.Poll{Options: []string{"Sim"}}, ErrEmptyPollQuestion},
		{"short secret", models.Poll{Question: "Vem?", Options: []string{"Sim"}, MessageSecret: []int{1, 2}}, ErrInvalidMessageSecret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendPoll(context.Background(), []string{"Ana"}, tt.poll)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidation(err))
		})
	}
	assert.Empty(t, session.callsOf("SendPoll"))
	assert.Empty(t, session.callsOf("Contacts"))
}

func TestSendPollToEachRecipient(t *testing.T) {
	session := newFakeSession(
		contact("Ana", "1@s.whatsapp.net"),
		contact("Beto", "2@s.whatsapp.net"),
	)
	svc, _, _ := newTestService(t, session)

	poll := models.Poll{Question: "Vem?", Options: []string{"Sim", "Não"}}
	report, err := svc.SendPoll(context.Background(), []string{"Ana", "Beto"}, poll)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent)
	calls := session.callsOf("SendPoll")
	require.Len(t, calls, 2)
	assert.Equal(t, "1@s.whatsapp.net", calls[0].To)
	assert.Equal(t, []string{"Vem?", "Sim", "Não"}, calls[0].Args)
}

func TestSendTextThenPollAttemptsPollAfterTextFailure(t *testing.T) {
	session := newFakeSession(
		contact("Ana", "1@s.whatsapp.net"),
		contact("Beto", "2@s.whatsapp.net"),
	)
	session.failOn["SendText:1@s.whatsapp.net"] = errors.New("boom")
	svc, _, _ := newTestService(t, session)

	poll := models.Poll{Question: "Vem?", Options: []string{"Sim"}}
	report, err := svc.SendTextThenPoll(context.Background(), []string{"Ana", "Beto"}, "convite", poll)
	require.NoError(t, err)

	assert.Equal(t, []string{"Contacts", "SendText", "SendPoll", "SendText", "SendPoll"}, session.methods())
	assert.Equal(t, 3, report.Sent)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, report.Outcomes, 4)
	assert.Equal(t, stepText, report.Outcomes[0].Step)
	assert.Equal(t, models.StatusFailed, report.Outcomes[0].Status)
	assert.Equal(t, stepPoll, report.Outcomes[1].Step)
	assert.Equal(t, models.StatusSent, report.Outcomes[1].Status)
}

func TestSendToNumber(t *testing.T) {
	session := newFakeSession()
	svc, _, _ := newTestService(t, session)

	id, err := svc.SendToNumber(context.Background(), "+55 (11) 99999-0000", "oi")
	require.NoError(t, err)
	assert.Equal(t, "msg-5511999990000@s.whatsapp.net", id)

	_, err = svc.SendToNumber(context.Background(), "abc", "oi")
	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Len(t, session.callsOf("SendText"), 1)
}

func TestSendGroupMessage(t *testing.T) {
	session := newFakeSession()
	svc, _, _ := newTestService(t, session)

	_, err := svc.SendGroupMessage(context.Background(), "120363001@g.us", "bom dia")
	require.NoError(t, err)

	_, err = svc.SendGroupMessage(context.Background(), "", "bom dia")
	assert.ErrorIs(t, err, ErrInvalidGroup)

	calls := session.callsOf("SendText")
	require.Len(t, calls, 1)
	assert.Equal(t, "120363001@g.us", calls[0].To)
}
