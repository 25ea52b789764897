package imposterbot

import (
	"context"
	"errors"
	"fmt"

	userModel "github.com/bloops-games/imposter/internal/database/user/model"
	"github.com/bloops-games/imposter/internal/imposterbot/match"
	"github.com/bloops-games/imposter/internal/imposterbot/resource"
	"github.com/bloops-games/imposter/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

var userErrTexts = []struct {
	err  error
	text string
}{
	{match.ErrAlreadyJoined, resource.TextAlreadyJoined},
	{match.ErrLobbyClosed, resource.TextLobbyClosed},
	{match.ErrRosterFull, resource.TextRosterFull},
	{match.ErrNotStarted, resource.TextNotStarted},
	{match.ErrNotParticipant, resource.TextNotParticipant},
	{match.ErrAlreadyVoted, resource.TextAlreadyVoted},
	{match.ErrSelfVote, resource.TextSelfVote},
	{match.ErrUnknownCandidate, resource.TextUnknownCandidate},
	{match.ErrNoActiveVote, resource.TextNoActiveVote},
}

// userErrText maps a rejected user action to the notice shown to that user.
func userErrText(err error) (string, bool) {
	for _, e := range userErrTexts {
		if errors.Is(err, e.err) {
			return e.text, true
		}
	}

	return "", false
}

func (m *manager) handleCallbackQuery(ctx context.Context, u userModel.User, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil || query.Message.Chat == nil {
		return m.answer(query, "", false)
	}

	session, err := m.registry.Get(query.Message.Chat.ID)
	if err != nil {
		return m.answer(query, resource.TextNoGame, true)
	}

	if query.Data == match.CallbackJoin {
		return m.handleJoinButton(ctx, u, session, query)
	}

	text, err := session.HandleCallback(ctx, u.ID, query.Data)
	if err != nil {
		return m.answerErr(ctx, query, err)
	}

	if text != "" {
		// role reveal, visible to the presser only
		return m.answer(query, text, true)
	}

	return m.answer(query, resource.TextVoteAccepted, false)
}

func (m *manager) handleJoinButton(ctx context.Context, u userModel.User, session *match.Session, query *tgbotapi.CallbackQuery) error {
	if err := session.Join(ctx, identity(u)); err != nil {
		return m.answerErr(ctx, query, err)
	}

	return m.answer(query, resource.TextJoined, false)
}

func (m *manager) answerErr(ctx context.Context, query *tgbotapi.CallbackQuery, err error) error {
	if text, ok := userErrText(err); ok {
		return m.answer(query, text, true)
	}

	logging.FromContext(ctx).Named("manager.callback").Errorf("callback %q: %v", query.Data, err)

	return m.answer(query, resource.TextSomethingWrong, true)
}

func (m *manager) answer(query *tgbotapi.CallbackQuery, text string, alert bool) error {
	cb := tgbotapi.NewCallback(query.ID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(query.ID, text)
	}

	if _, err := m.tg.AnswerCallbackQuery(cb); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}

	return nil
}
