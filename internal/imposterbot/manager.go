package imposterbot

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	chatDb "github.com/bloops-games/imposter/internal/database/chat/database"
	chatModel "github.com/bloops-games/imposter/internal/database/chat/model"
	scoreDb "github.com/bloops-games/imposter/internal/database/score/database"
	statDb "github.com/bloops-games/imposter/internal/database/stat/database"
	statModel "github.com/bloops-games/imposter/internal/database/stat/model"
	userDb "github.com/bloops-games/imposter/internal/database/user/database"
	userModel "github.com/bloops-games/imposter/internal/database/user/model"
	"github.com/bloops-games/imposter/internal/imposterbot/match"
	"github.com/bloops-games/imposter/internal/imposterbot/resource"
	"github.com/bloops-games/imposter/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

var ErrUpdateNotSupported = fmt.Errorf("update not supported")

func NewManager(
	tg botAPI,
	config *Config,
	userDb *userDb.DB,
	statDb *statDb.DB,
	scoreDb *scoreDb.DB,
	chatDb *chatDb.DB,
) *manager {
	return &manager{
		tg:        tg,
		config:    config,
		transport: newTransport(tg),
		registry:  match.NewRegistry(),
		userDb:    userDb,
		statDb:    statDb,
		scoreDb:   scoreDb,
		chatDb:    chatDb,
		words:     resource.Words,
	}
}

type manager struct {
	tg        botAPI
	config    *Config
	transport *transport
	// key: chat id, one live game per chat
	registry *match.Registry
	userDb   *userDb.DB
	statDb   *statDb.DB
	scoreDb  *scoreDb.DB
	chatDb   *chatDb.DB
	words    []string
	// nil means the default fastrand source
	rand match.Rand

	cancel     func()
	ctxSess    context.Context
	cancelSess func()
}

func (m *manager) Stop() {
	m.cancel()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	// games outlive the update context so shutdown can stop them explicitly
	m.ctxSess, m.cancelSess = context.WithCancel(logging.WithLogger(context.Background(), logging.FromContext(ctx)))

	upd := tgbotapi.NewUpdate(0)
	upd.Timeout = int(m.config.TgBotPollTimeout.Seconds())
	updates, err := m.tg.GetUpdatesChan(upd)
	if err != nil {
		return fmt.Errorf("tg get updates chan: %w", err)
	}

	wg := &sync.WaitGroup{}
	poolWorkerNum := runtime.NumCPU()
	wg.Add(poolWorkerNum)

	for i := 0; i < poolWorkerNum; i++ {
		go m.pool(ctx, wg, updates)
	}

	wg.Wait()
	m.shutdown()

	return nil
}

// shutdown stops every live game, each one tears down and leaves the registry.
func (m *manager) shutdown() {
	m.registry.StopAll()
	m.cancelSess()
}

func (m *manager) pool(ctx context.Context, wg *sync.WaitGroup, updCh tgbotapi.UpdatesChannel) {
	defer wg.Done()
	logger := logging.FromContext(ctx).Named("manager.pool")
	for {
		select {
		case update, ok := <-updCh:
			if !ok {
				return
			}

			if err := m.handleUpdate(ctx, update); err != nil {
				logger.Errorf("handle update %d: %v", update.UpdateID, err)
			}
		case <-ctx.Done():
			// shutdown
			return
		}
	}
}

func (m *manager) handleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	u, err := m.recvUser(upd)
	if err != nil {
		if errors.Is(err, ErrUpdateNotSupported) {
			return nil
		}

		return fmt.Errorf("recv user: %w", err)
	}

	if upd.Message != nil {
		if err := m.handleMessage(ctx, u, upd.Message); err != nil {
			return fmt.Errorf("handle message: %w", err)
		}
	}

	if upd.CallbackQuery != nil {
		if err := m.handleCallbackQuery(ctx, u, upd.CallbackQuery); err != nil {
			return fmt.Errorf("handle callback query: %w", err)
		}
	}

	return nil
}

func (m *manager) handleMessage(ctx context.Context, u userModel.User, msg *tgbotapi.Message) error {
	if msg.Chat == nil || msg.Text == "" {
		return nil
	}

	chatID := msg.Chat.ID
	if msg.Chat.IsPrivate() {
		return m.handlePrivateMessage(u, chatID, msg.Text)
	}

	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		return nil
	}

	settings, err := m.chatSettings(chatID)
	if err != nil {
		return fmt.Errorf("chat settings: %w", err)
	}

	cmd, args, ok := parseCommand(msg.Text, settings.Prefix)
	if !ok {
		// plain messages are questions and answers of the running game
		if session, err := m.registry.Get(chatID); err == nil {
			session.HandleMessage(u.ID, msg.Text)
		}

		return nil
	}

	switch cmd {
	case resource.CmdImposter:
		err = m.handleImposterCmd(ctx, u, chatID)
	case resource.CmdBegin:
		err = m.handleBeginCmd(u, chatID)
	case resource.CmdStop:
		err = m.handleStopCmd(u, chatID)
	case resource.CmdPoints:
		err = m.handlePointsCmd(ctx, chatID)
	case resource.CmdResetPoints:
		err = m.handleResetPointsCmd(u, chatID)
	case resource.CmdProfile:
		err = m.handleProfileCmd(u, chatID)
	case resource.CmdSetPrefix:
		err = m.handleSetPrefixCmd(u, settings, args)
	case resource.CmdHelp, resource.CmdStart:
		err = m.handleHelpCmd(chatID)
	}

	if err != nil {
		return fmt.Errorf("handle %s cmd: %w", cmd, err)
	}

	return nil
}

func (m *manager) handlePrivateMessage(u userModel.User, chatID int64, text string) error {
	cmd, _, ok := parseCommand(text, "")
	if !ok {
		return nil
	}

	switch cmd {
	case resource.CmdStart:
		return m.send(chatID, fmt.Sprintf(resource.TextGreeting, u.DisplayName()), false)
	case resource.CmdHelp:
		return m.handleHelpCmd(chatID)
	case resource.CmdProfile:
		return m.handleProfileCmd(u, chatID)
	default:
		return m.send(chatID, resource.TextGroupOnly, false)
	}
}

var commands = map[string]struct{}{
	resource.CmdStart:       {},
	resource.CmdImposter:    {},
	resource.CmdBegin:       {},
	resource.CmdStop:        {},
	resource.CmdPoints:      {},
	resource.CmdResetPoints: {},
	resource.CmdProfile:     {},
	resource.CmdSetPrefix:   {},
	resource.CmdHelp:        {},
}

// parseCommand accepts "/cmd", "/cmd@botname" and the chat prefix form "#cmd".
func parseCommand(text, prefix string) (string, string, bool) {
	text = strings.TrimSpace(text)

	var rest string
	switch {
	case strings.HasPrefix(text, "/"):
		rest = text[1:]
	case prefix != "" && strings.HasPrefix(text, prefix):
		rest = text[len(prefix):]
	default:
		return "", "", false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", "", false
	}

	cmd := fields[0]
	if idx := strings.Index(cmd, "@"); idx >= 0 {
		cmd = cmd[:idx]
	}

	cmd = strings.ToLower(cmd)
	if _, ok := commands[cmd]; !ok {
		return "", "", false
	}

	return cmd, strings.TrimSpace(strings.TrimPrefix(rest, fields[0])), true
}

func (m *manager) chatSettings(chatID int64) (chatModel.Chat, error) {
	settings, err := m.chatDb.Fetch(chatID)
	if err != nil {
		if errors.Is(err, chatDb.ErrNotFound) {
			return chatModel.NewChat(chatID), nil
		}

		return settings, fmt.Errorf("chat db fetch: %w", err)
	}

	return settings, nil
}

func (m *manager) matchConfig(u userModel.User, chatID int64) match.Config {
	return match.Config{
		ChatID:             chatID,
		Host:               identity(u),
		HostJoins:          m.config.HostAutoJoin,
		LobbyTimeout:       m.config.LobbyTimeout,
		InteractionTimeout: m.config.InteractionTimeout,
		ConsensusTimeout:   m.config.ConsensusTimeout,
		VoteTimeout:        m.config.VoteTimeout,
		CrewReward:         m.config.CrewReward,
		ImposterReward:     m.config.ImposterReward,
		Words:              m.words,
		Rand:               m.rand,
		Transport:          m.transport,
		Notifier:           m.transport,
		Ledger:             m.scoreDb,
		DoneFn:             m.matchDoneFn,
	}
}

func identity(u userModel.User) match.Identity {
	return match.Identity{UserID: u.ID, Name: u.DisplayName(), Avatar: u.Username}
}

func (m *manager) matchDoneFn(session *match.Session) error {
	if err := m.appendStat(session); err != nil {
		return fmt.Errorf("append stat: %w", err)
	}

	return nil
}

// appendStat stores one record per player of a resolved game, kicked players included.
func (m *manager) appendStat(session *match.Session) error {
	outcome := session.Outcome()
	if outcome == nil {
		return nil
	}

	playersNum := len(outcome.Players) + len(outcome.Kicked)
	stats := make([]statModel.Stat, 0, playersNum)
	add := func(p match.Player, kicked bool) {
		stat := statModel.NewStat(p.UserID, session.ChatID)
		stat.SessionID = session.ID
		if p.Imposter {
			stat.Role = statModel.RoleImposter
		}

		stat.Won = !kicked && outcome.Won(p)
		stat.Kicked = kicked
		stat.VotedOut = outcome.VotedOut != nil && outcome.VotedOut.UserID == p.UserID
		stat.Points = outcome.Rewards[p.UserID]
		stat.Rounds = outcome.Rounds
		stat.PlayersNum = playersNum
		stats = append(stats, stat)
	}

	for _, p := range outcome.Players {
		add(p, false)
	}

	for _, p := range outcome.Kicked {
		add(p, true)
	}

	for _, stat := range stats {
		if err := m.statDb.Add(stat); err != nil {
			return fmt.Errorf("stat db add: %w", err)
		}
	}

	return nil
}

func (m *manager) recvUser(upd tgbotapi.Update) (userModel.User, error) {
	var tgUser *tgbotapi.User
	switch {
	case upd.CallbackQuery != nil:
		tgUser = upd.CallbackQuery.From
	case upd.Message != nil:
		tgUser = upd.Message.From
	}

	if tgUser == nil {
		return userModel.User{}, ErrUpdateNotSupported
	}

	u, err := m.userDb.Fetch(int64(tgUser.ID))
	if err != nil && !errors.Is(err, userDb.ErrNotFound) {
		return u, fmt.Errorf("user db fetch: %w", err)
	}

	fresh := userModel.User{
		ID:           int64(tgUser.ID),
		FirstName:    tgUser.FirstName,
		LastName:     tgUser.LastName,
		LanguageCode: tgUser.LanguageCode,
		Username:     tgUser.UserName,
		Admin:        m.isBotAdmin(tgUser.UserName),
		CreatedAt:    u.CreatedAt,
	}

	if err == nil && fresh == u {
		return u, nil
	}

	if fresh.CreatedAt.IsZero() {
		fresh.CreatedAt = time.Now()
	}

	if err := m.userDb.Store(fresh); err != nil {
		return fresh, fmt.Errorf("user db store: %w", err)
	}

	return fresh, nil
}

func (m *manager) send(chatID int64, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := m.tg.Send(msg); err != nil {
		return fmt.Errorf("send msg: %w", err)
	}

	return nil
}
