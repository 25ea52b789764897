package imposterbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	chatModel "github.com/bloops-games/imposter/internal/database/chat/model"
	scoreDb "github.com/bloops-games/imposter/internal/database/score/database"
	statDb "github.com/bloops-games/imposter/internal/database/stat/database"
	userDb "github.com/bloops-games/imposter/internal/database/user/database"
	userModel "github.com/bloops-games/imposter/internal/database/user/model"
	"github.com/bloops-games/imposter/internal/imposterbot/match"
	"github.com/bloops-games/imposter/internal/imposterbot/resource"
	"golang.org/x/sync/errgroup"
)

func (m *manager) handleHelpCmd(chatID int64) error {
	return m.send(chatID, resource.TextRules, true)
}

func (m *manager) handleImposterCmd(ctx context.Context, u userModel.User, chatID int64) error {
	if ok, err := m.isAllowedChat(chatID); !ok || err != nil {
		return err
	}

	session, err := m.registry.Create(m.matchConfig(u, chatID))
	if err != nil {
		if errors.Is(err, match.ErrSessionExists) {
			return m.send(chatID, resource.TextGameInProgress, false)
		}

		return fmt.Errorf("create session: %w", err)
	}

	session.Run(m.ctxSess)

	return nil
}

func (m *manager) handleBeginCmd(u userModel.User, chatID int64) error {
	if ok, err := m.isAllowedChat(chatID); !ok || err != nil {
		return err
	}

	session, err := m.registry.Get(chatID)
	if err != nil {
		return m.send(chatID, resource.TextNoGame, false)
	}

	switch err := session.Begin(u.ID); {
	case err == nil:
		return nil
	case errors.Is(err, match.ErrNotHost):
		return m.send(chatID, resource.TextOnlyHost, false)
	case errors.Is(err, match.ErrNotEnoughPlayers):
		return m.send(chatID, fmt.Sprintf(resource.TextNotEnoughPlayers, match.MinPlayers), false)
	case errors.Is(err, match.ErrLobbyClosed):
		return m.send(chatID, resource.TextAlreadyStarted, false)
	default:
		return fmt.Errorf("begin: %w", err)
	}
}

func (m *manager) handleStopCmd(u userModel.User, chatID int64) error {
	session, err := m.registry.Get(chatID)
	if err != nil {
		return m.send(chatID, resource.TextNoGame, false)
	}

	if session.Host().UserID != u.ID {
		if ok, err := m.isAdmin(u, chatID); !ok || err != nil {
			return err
		}
	}

	session.Stop()

	return m.send(chatID, resource.TextGameStopped, false)
}

func (m *manager) handlePointsCmd(ctx context.Context, chatID int64) error {
	scores, err := m.scoreDb.Top(chatID, m.config.LeaderboardSize)
	if err != nil {
		if errors.Is(err, scoreDb.ErrNotFound) {
			return m.send(chatID, resource.TextNoPoints, false)
		}

		return fmt.Errorf("score db top: %w", err)
	}

	if len(scores) == 0 {
		return m.send(chatID, resource.TextNoPoints, false)
	}

	names := make([]string, len(scores))
	g, _ := errgroup.WithContext(ctx)
	for i := range scores {
		idx := i
		g.Go(func() error {
			u, err := m.userDb.Fetch(scores[idx].UserID)
			if err != nil {
				if errors.Is(err, userDb.ErrNotFound) {
					names[idx] = fmt.Sprintf("player %d", scores[idx].UserID)
					return nil
				}

				return fmt.Errorf("user db fetch: %w", err)
			}

			names[idx] = u.DisplayName()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return m.send(chatID, renderLeaderboard(scores, names), false)
}

func (m *manager) handleResetPointsCmd(u userModel.User, chatID int64) error {
	if ok, err := m.isAdmin(u, chatID); !ok || err != nil {
		return err
	}

	if err := m.scoreDb.Reset(chatID); err != nil {
		if errors.Is(err, scoreDb.ErrNotFound) {
			return m.send(chatID, resource.TextNoPoints, false)
		}

		return fmt.Errorf("score db reset: %w", err)
	}

	return m.send(chatID, resource.TextPointsReset, false)
}

func (m *manager) handleProfileCmd(u userModel.User, chatID int64) error {
	stat, err := m.statDb.FetchProfileStat(u.ID)
	if err != nil && !errors.Is(err, statDb.ErrNotFound) {
		return fmt.Errorf("stat db fetch profile stat: %w", err)
	}

	return m.send(chatID, renderProfile(u, stat), true)
}

func (m *manager) handleSetPrefixCmd(u userModel.User, settings chatModel.Chat, prefix string) error {
	if ok, err := m.isAdmin(u, settings.ID); !ok || err != nil {
		return err
	}

	if n := utf8.RuneCountInString(prefix); n == 0 || n > resource.MaxPrefixLen || strings.ContainsAny(prefix, " \t\n") {
		return m.send(settings.ID, resource.TextPrefixInvalid, false)
	}

	settings.Prefix = prefix
	settings.UpdatedAt = time.Now()
	if err := m.chatDb.Store(settings); err != nil {
		return fmt.Errorf("chat db store: %w", err)
	}

	return m.send(settings.ID, fmt.Sprintf(resource.TextPrefixSet, prefix), false)
}
