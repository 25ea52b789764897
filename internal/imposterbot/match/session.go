package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bloops-games/imposter/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSessionExists    = fmt.Errorf("session already exists")
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrSessionEnded     = fmt.Errorf("session ended")
	ErrLobbyClosed      = fmt.Errorf("lobby closed")
	ErrNotStarted       = fmt.Errorf("session not started")
	ErrRosterFull       = fmt.Errorf("roster is full")
	ErrAlreadyJoined    = fmt.Errorf("already joined")
	ErrNotEnoughPlayers = fmt.Errorf("not enough players")
	ErrNotParticipant   = fmt.Errorf("not a participant")
	ErrAlreadyVoted     = fmt.Errorf("already voted")
	ErrSelfVote         = fmt.Errorf("self vote")
	ErrUnknownCandidate = fmt.Errorf("unknown candidate")
	ErrNoActiveVote     = fmt.Errorf("no active vote")
	ErrNotHost          = fmt.Errorf("not a host")
)

type StateKind uint8

const (
	StateKindLobby StateKind = iota + 1
	StateKindPlaying
	StateKindVoting
	StateKindEnded
)

func (s StateKind) String() string {
	switch s {
	case StateKindLobby:
		return "lobby"
	case StateKindPlaying:
		return "playing"
	case StateKindVoting:
		return "voting"
	case StateKindEnded:
		return "ended"
	default:
		return "unknown"
	}
}

type Team uint8

const (
	TeamNone Team = iota
	TeamCrew
	TeamImposter
)

func (t Team) String() string {
	switch t {
	case TeamCrew:
		return "crew"
	case TeamImposter:
		return "imposter"
	default:
		return "none"
	}
}

type Reason uint8

const (
	ReasonVote Reason = iota + 1
	ReasonNoVotes
	ReasonKick
)

// Outcome is the resolved result of a finished game.
type Outcome struct {
	Winner     Team
	Reason     Reason
	SecretWord string
	Rounds     int
	// Players is the roster at the end of the game, kicked players excluded
	Players   []Player
	Imposters []Player
	Kicked    []Player
	VotedOut  *Player
	Tally     map[int64]int
	Rewards   map[int64]int
}

func (o Outcome) Won(p Player) bool {
	return (o.Winner == TeamImposter) == p.Imposter && o.Winner != TeamNone
}

func NewSession(config Config) *Session {
	config = config.withDefaults()
	s := &Session{
		ID:        uuid.New().String(),
		ChatID:    config.ChatID,
		CreatedAt: time.Now(),
		config:    config,
		state:     StateKindLobby,
		roster:    NewRoster(config.MaxPlayers),
		startCh:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	if config.HostJoins && config.Host.UserID != 0 {
		s.roster.Add(config.Host)
	}

	return s
}

type Session struct {
	mtx sync.RWMutex
	// serializes edits of the lobby and ballot cards, always taken before mtx
	editMtx sync.Mutex

	ID        string
	ChatID    int64
	CreatedAt time.Time

	config     Config
	state      StateKind
	roster     *Roster
	secretWord string
	kicked     []Player
	round      int
	outcome    *Outcome

	lobbyMessageID  int
	ballot          ballot
	ballotMessageID int

	inbox    inbox
	startCh  chan struct{}
	cancel   func()
	sema     sync.Once
	teardown sync.Once
	done     chan struct{}
}

func (r *Session) Run(ctx context.Context) {
	r.sema.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		r.mtx.Lock()
		r.cancel = cancel
		ended := r.state == StateKindEnded
		r.mtx.Unlock()

		if ended {
			cancel()
			return
		}

		go r.loop(ctx)
	})
}

// Stop ends the session from any state. The done callback fires once.
func (r *Session) Stop() {
	r.mtx.Lock()
	r.state = StateKindEnded
	cancel := r.cancel
	r.mtx.Unlock()

	if cancel != nil {
		cancel()
	}

	r.teardown.Do(func() {
		defer close(r.done)
		if r.config.DoneFn != nil {
			if err := r.config.DoneFn(r); err != nil {
				logging.DefaultLogger().Named("match.stop").Errorf("done function: %v", err)
			}
		}
	})
}

// Done is closed after teardown, once the done callback has returned.
func (r *Session) Done() <-chan struct{} {
	return r.done
}

func (r *Session) Join(ctx context.Context, identity Identity) error {
	r.editMtx.Lock()
	defer r.editMtx.Unlock()

	r.mtx.Lock()
	if r.state != StateKindLobby {
		r.mtx.Unlock()
		return ErrLobbyClosed
	}

	if r.roster.Has(identity.UserID) {
		r.mtx.Unlock()
		return ErrAlreadyJoined
	}

	if !r.roster.Add(identity) {
		r.mtx.Unlock()
		return ErrRosterFull
	}

	players := r.roster.Players()
	messageID := r.lobbyMessageID
	r.mtx.Unlock()

	if messageID != 0 {
		r.edit(ctx, messageID, r.config.Renderer.Lobby(players, r.config.MaxPlayers, false), joinButtons())
	}

	return nil
}

// Begin closes the lobby early on the host's request.
func (r *Session) Begin(userID int64) error {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.state != StateKindLobby {
		return ErrLobbyClosed
	}

	if userID != r.config.Host.UserID {
		return ErrNotHost
	}

	if r.roster.Len() < r.config.MinPlayers {
		return ErrNotEnoughPlayers
	}

	select {
	case r.startCh <- struct{}{}:
	default:
	}

	return nil
}

// HandleMessage feeds a chat message to the pending turn. It reports whether the text was consumed.
func (r *Session) HandleMessage(userID int64, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	return r.inbox.deliver(userID, text)
}

// HandleCallback handles role reveal and ballot buttons. The returned text is meant
// only for the user who pressed the button.
func (r *Session) HandleCallback(ctx context.Context, userID int64, data string) (string, error) {
	if data == CallbackRole {
		return r.revealRole(userID)
	}

	return "", r.vote(ctx, userID, data)
}

func (r *Session) revealRole(userID int64) (string, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	if r.state == StateKindLobby {
		return "", ErrNotStarted
	}

	p, ok := r.roster.Get(userID)
	if !ok {
		return "", ErrNotParticipant
	}

	return r.config.Renderer.Role(p, r.wordFor(p)), nil
}

func (r *Session) wordFor(p Player) string {
	if p.Imposter {
		return ""
	}

	return r.secretWord
}

func (r *Session) vote(ctx context.Context, userID int64, data string) error {
	r.editMtx.Lock()
	defer r.editMtx.Unlock()

	r.mtx.Lock()
	if r.ballot == nil {
		r.mtx.Unlock()
		return ErrNoActiveVote
	}

	if !r.roster.Has(userID) {
		r.mtx.Unlock()
		return ErrNotParticipant
	}

	if err := r.ballot.vote(userID, data); err != nil {
		r.mtx.Unlock()
		return err
	}

	text, buttons := r.ballot.card(r.config.Renderer, false)
	messageID := r.ballotMessageID
	r.mtx.Unlock()

	if messageID != 0 {
		r.edit(ctx, messageID, text, buttons)
	}

	return nil
}

func (r *Session) State() StateKind {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.state
}

func (r *Session) Players() []Player {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.roster.Players()
}

func (r *Session) Host() Identity {
	return r.config.Host
}

// Outcome is nil until the game is resolved. A cancelled or stopped game has none.
func (r *Session) Outcome() *Outcome {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if r.outcome == nil {
		return nil
	}

	outcome := *r.outcome
	return &outcome
}

func (r *Session) SecretWord() string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.secretWord
}

func (r *Session) loop(ctx context.Context) {
	logger := logging.FromContext(ctx).Named("match.loop").With("session", r.ID, "chat", r.ChatID)
	ctx = logging.WithLogger(ctx, logger)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Errorf("session crashed: %v", rec)
			r.send(ctx, r.config.Renderer.Crashed(), nil)
		}

		r.Stop()
	}()

	r.openLobby(ctx)
	if !r.waitLobby(ctx) {
		return
	}

	if err := r.play(ctx); err != nil && !errors.Is(err, ErrSessionEnded) {
		logger.Errorf("playing: %v", err)
		r.send(ctx, r.config.Renderer.Crashed(), nil)
	}
}

func (r *Session) openLobby(ctx context.Context) {
	r.editMtx.Lock()
	defer r.editMtx.Unlock()

	players := r.Players()
	messageID := r.send(ctx, r.config.Renderer.Lobby(players, r.config.MaxPlayers, false), joinButtons())

	r.mtx.Lock()
	r.lobbyMessageID = messageID
	r.mtx.Unlock()
}

func (r *Session) waitLobby(ctx context.Context) bool {
	timer := time.NewTimer(r.config.LobbyTimeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	case <-r.startCh:
	}

	return true
}

func (r *Session) play(ctx context.Context) error {
	if err := r.start(ctx); err != nil {
		return err
	}

	for idx := 1; idx <= r.config.RoundsNum; idx++ {
		if err := r.playRound(ctx, idx); err != nil {
			return fmt.Errorf("round %d: %w", idx, err)
		}
	}

	extra, err := r.askExtraRound(ctx)
	if err != nil {
		return fmt.Errorf("extra round consensus: %w", err)
	}

	if extra {
		if err := r.playRound(ctx, r.config.RoundsNum+1); err != nil {
			return fmt.Errorf("extra round: %w", err)
		}
	}

	if err := r.accuse(ctx); err != nil {
		return fmt.Errorf("accusation: %w", err)
	}

	return nil
}

// start closes the lobby and assigns roles, a lobby short of players is cancelled.
func (r *Session) start(ctx context.Context) error {
	r.editMtx.Lock()
	r.mtx.Lock()
	if r.state != StateKindLobby {
		r.mtx.Unlock()
		r.editMtx.Unlock()
		return ErrSessionEnded
	}

	if joined := r.roster.Len(); joined < r.config.MinPlayers {
		r.state = StateKindEnded
		r.mtx.Unlock()
		r.editMtx.Unlock()
		r.send(ctx, r.config.Renderer.Cancelled(joined, r.config.MinPlayers), nil)
		return ErrSessionEnded
	}

	r.state = StateKindPlaying
	for _, id := range AssignRoles(r.roster.IDs(), r.config.Rand) {
		r.roster.setImposter(id)
	}

	r.secretWord = PickWord(r.config.Words, r.config.Rand)
	word := r.secretWord
	players := r.roster.Players()
	imposters, _ := r.roster.Count()
	lobbyMessageID := r.lobbyMessageID
	r.mtx.Unlock()

	if lobbyMessageID != 0 {
		r.edit(ctx, lobbyMessageID, r.config.Renderer.Lobby(players, r.config.MaxPlayers, true), nil)
	}
	r.editMtx.Unlock()

	r.send(ctx, r.config.Renderer.Started(imposters), roleButtons())
	r.notifyRoles(ctx, players, word)

	return nil
}

// notifyRoles delivers private role notices in parallel. A failed delivery is logged and skipped.
func (r *Session) notifyRoles(ctx context.Context, players []Player, word string) {
	if r.config.Notifier == nil {
		return
	}

	logger := logging.FromContext(ctx).Named("match.notifyRoles")
	g, gctx := errgroup.WithContext(ctx)
	for _, player := range players {
		p := player
		g.Go(func() error {
			secret := word
			if p.Imposter {
				secret = ""
			}

			if err := r.config.Notifier.NotifyRole(gctx, p, r.config.Renderer.Role(p, secret)); err != nil {
				logger.Warnf("notify role, user %d: %v", p.UserID, err)
			}

			return nil
		})
	}

	_ = g.Wait()
}

func (r *Session) askExtraRound(ctx context.Context) (bool, error) {
	c := newConsensus()
	if err := r.collect(ctx, c, r.config.ConsensusTimeout); err != nil {
		return false, err
	}

	extra := c.result()
	r.send(ctx, r.config.Renderer.ConsensusResult(extra), nil)

	return extra, nil
}

func (r *Session) accuse(ctx context.Context) error {
	r.mtx.Lock()
	if r.state != StateKindPlaying {
		r.mtx.Unlock()
		return ErrSessionEnded
	}

	r.state = StateKindVoting
	candidates := r.roster.Players()
	r.mtx.Unlock()

	a := newAccusation(candidates)
	if err := r.collect(ctx, a, r.config.VoteTimeout); err != nil {
		return err
	}

	leaderID, ok := a.leader()
	if !ok {
		r.finish(ctx, ResolveAccusation(Player{}, false), ReasonNoVotes, nil, a.copyTally())
		return nil
	}

	votedOut, _ := a.candidate(leaderID)
	r.finish(ctx, ResolveAccusation(votedOut, true), ReasonVote, &votedOut, a.copyTally())

	return nil
}

// collect publishes a ballot and keeps it open for the whole window.
func (r *Session) collect(ctx context.Context, b ballot, window time.Duration) error {
	r.editMtx.Lock()
	r.mtx.Lock()
	if r.state != StateKindPlaying && r.state != StateKindVoting {
		r.mtx.Unlock()
		r.editMtx.Unlock()
		return ErrSessionEnded
	}

	r.ballot = b
	r.ballotMessageID = 0
	text, buttons := b.card(r.config.Renderer, false)
	r.mtx.Unlock()

	messageID := r.send(ctx, text, buttons)
	r.mtx.Lock()
	r.ballotMessageID = messageID
	r.mtx.Unlock()
	r.editMtx.Unlock()

	timer := time.NewTimer(window)
	defer timer.Stop()

	var err error
	select {
	case <-ctx.Done():
		err = ErrSessionEnded
	case <-timer.C:
	}

	r.editMtx.Lock()
	defer r.editMtx.Unlock()

	r.mtx.Lock()
	r.ballot = nil
	r.ballotMessageID = 0
	text, _ = b.card(r.config.Renderer, true)
	r.mtx.Unlock()

	if err == nil && messageID != 0 {
		r.edit(ctx, messageID, text, nil)
	}

	return err
}

// kick removes a silent player and ends the game when the kick decides it.
func (r *Session) kick(ctx context.Context, userID int64) {
	r.mtx.Lock()
	if r.state != StateKindPlaying {
		r.mtx.Unlock()
		return
	}

	p, ok := r.roster.Remove(userID)
	if !ok {
		r.mtx.Unlock()
		return
	}

	r.kicked = append(r.kicked, p)
	imposters, crew := r.roster.Count()
	r.mtx.Unlock()

	text := r.config.Renderer.Kick(p)
	r.send(ctx, text, nil)
	if err := r.config.Transport.Notify(ctx, p.UserID, text); err != nil {
		logging.FromContext(ctx).Named("match.kick").Warnf("notify kicked user %d: %v", p.UserID, err)
	}

	if winner := CheckKick(p.Imposter, imposters, crew); winner != TeamNone {
		r.finish(ctx, winner, ReasonKick, nil, nil)
	}
}

// finish resolves the game once: result card, rewards, teardown.
func (r *Session) finish(ctx context.Context, winner Team, reason Reason, votedOut *Player, tally map[int64]int) {
	r.mtx.Lock()
	if r.state == StateKindEnded || r.outcome != nil {
		r.mtx.Unlock()
		return
	}

	outcome := &Outcome{
		Winner:     winner,
		Reason:     reason,
		SecretWord: r.secretWord,
		Rounds:     r.round,
		Players:    r.roster.Players(),
		Kicked:     append([]Player(nil), r.kicked...),
		VotedOut:   votedOut,
		Tally:      tally,
		Rewards:    map[int64]int{},
	}

	for _, p := range append(append([]Player(nil), outcome.Players...), outcome.Kicked...) {
		if p.Imposter {
			outcome.Imposters = append(outcome.Imposters, p)
		}
	}

	for _, p := range outcome.Players {
		switch {
		case winner == TeamCrew && !p.Imposter:
			outcome.Rewards[p.UserID] = r.config.CrewReward
		case winner == TeamImposter && p.Imposter:
			outcome.Rewards[p.UserID] = r.config.ImposterReward
		}
	}

	r.outcome = outcome
	r.state = StateKindEnded
	r.mtx.Unlock()

	r.send(ctx, r.config.Renderer.Result(*outcome), nil)
	r.award(ctx, outcome)
	r.Stop()
}

func (r *Session) award(ctx context.Context, outcome *Outcome) {
	if r.config.Ledger == nil {
		return
	}

	logger := logging.FromContext(ctx).Named("match.award")
	for _, p := range outcome.Players {
		amount, ok := outcome.Rewards[p.UserID]
		if !ok {
			continue
		}

		if err := r.config.Ledger.AddPoints(ctx, r.ChatID, p.UserID, amount); err != nil {
			logger.Errorf("add points, user %d: %v", p.UserID, err)
		}
	}
}

func (r *Session) player(userID int64) (Player, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.roster.Get(userID)
}

func (r *Session) send(ctx context.Context, text string, buttons [][]Button) int {
	messageID, err := r.config.Transport.Send(ctx, r.ChatID, text, buttons)
	if err != nil {
		logging.FromContext(ctx).Named("match.send").Errorf("send message: %v", err)
		return 0
	}

	return messageID
}

func (r *Session) edit(ctx context.Context, messageID int, text string, buttons [][]Button) {
	if err := r.config.Transport.Edit(ctx, r.ChatID, messageID, text, buttons); err != nil {
		logging.FromContext(ctx).Named("match.edit").Errorf("edit message %d: %v", messageID, err)
	}
}
