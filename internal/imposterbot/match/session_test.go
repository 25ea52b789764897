package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"
)

const testWait = 5 * time.Second

type sentMessage struct {
	id      int
	text    string
	buttons [][]Button
}

type fakeTransport struct {
	mtx     sync.Mutex
	nextID  int
	sent    []sentMessage
	edits   []sentMessage
	notices map[int64][]string
	ballots chan sentMessage
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{notices: map[int64][]string{}, ballots: make(chan sentMessage, 8)}
}

func (f *fakeTransport) Send(_ context.Context, _ int64, text string, buttons [][]Button) (int, error) {
	f.mtx.Lock()
	f.nextID++
	msg := sentMessage{id: f.nextID, text: text, buttons: buttons}
	f.sent = append(f.sent, msg)
	f.mtx.Unlock()

	if isBallot(buttons) {
		f.ballots <- msg
	}

	return msg.id, nil
}

func (f *fakeTransport) Edit(_ context.Context, _ int64, messageID int, text string, buttons [][]Button) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.edits = append(f.edits, sentMessage{id: messageID, text: text, buttons: buttons})
	return nil
}

func (f *fakeTransport) Notify(_ context.Context, userID int64, text string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.notices[userID] = append(f.notices[userID], text)
	return nil
}

func (f *fakeTransport) sentTexts() []string {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	texts := make([]string, 0, len(f.sent))
	for _, msg := range f.sent {
		texts = append(texts, msg.text)
	}

	return texts
}

func isBallot(buttons [][]Button) bool {
	for _, row := range buttons {
		for _, b := range row {
			if b.Data == CallbackExtraRound || strings.HasPrefix(b.Data, CallbackVotePrefix) {
				return true
			}
		}
	}

	return false
}

type fakeNotifier struct {
	mtx   sync.Mutex
	roles map[int64]string
	fail  map[int64]bool
}

func (f *fakeNotifier) NotifyRole(_ context.Context, p Player, text string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.fail[p.UserID] {
		return fmt.Errorf("bot was blocked by the user")
	}

	f.roles[p.UserID] = text
	return nil
}

type award struct {
	userID int64
	amount int
}

type fakeLedger struct {
	mtx    sync.Mutex
	awards []award
}

func (f *fakeLedger) AddPoints(_ context.Context, _ int64, userID int64, amount int) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.awards = append(f.awards, award{userID: userID, amount: amount})
	return nil
}

// hookRenderer reports turn prompts to the test driving the players.
type hookRenderer struct {
	TextRenderer
	turns     chan [2]int64
	questions chan [2]int64
}

func newHookRenderer() *hookRenderer {
	return &hookRenderer{turns: make(chan [2]int64, 64), questions: make(chan [2]int64, 64)}
}

func (h *hookRenderer) Turn(round int, asker, answerer Player) string {
	h.turns <- [2]int64{asker.UserID, answerer.UserID}
	return h.TextRenderer.Turn(round, asker, answerer)
}

func (h *hookRenderer) Question(asker, answerer Player, question string) string {
	h.questions <- [2]int64{asker.UserID, answerer.UserID}
	return h.TextRenderer.Question(asker, answerer, question)
}

type fixture struct {
	transport *fakeTransport
	notifier  *fakeNotifier
	ledger    *fakeLedger
	renderer  *hookRenderer
	registry  *Registry
	session   *Session

	mtx     sync.Mutex
	doneNum int
}

func newFixture(t *testing.T, rng Rand, modify func(*Config)) *fixture {
	t.Helper()

	f := &fixture{
		transport: newFakeTransport(),
		notifier:  &fakeNotifier{roles: map[int64]string{}, fail: map[int64]bool{}},
		ledger:    &fakeLedger{},
		renderer:  newHookRenderer(),
		registry:  NewRegistry(),
	}

	config := Config{
		ChatID:             -100,
		Host:               Identity{UserID: 1, Name: "p1"},
		LobbyTimeout:       10 * time.Millisecond,
		InteractionTimeout: testWait,
		ConsensusTimeout:   300 * time.Millisecond,
		VoteTimeout:        300 * time.Millisecond,
		Words:              []string{"lighthouse"},
		Rand:               rng,
		Transport:          f.transport,
		Notifier:           f.notifier,
		Renderer:           f.renderer,
		Ledger:             f.ledger,
		DoneFn: func(*Session) error {
			f.mtx.Lock()
			defer f.mtx.Unlock()
			f.doneNum++
			return nil
		},
	}

	if modify != nil {
		modify(&config)
	}

	session, err := f.registry.Create(config)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	f.session = session
	t.Cleanup(session.Stop)

	return f
}

func (f *fixture) join(t *testing.T, n int) {
	t.Helper()

	for i := 1; i <= n; i++ {
		if err := f.session.Join(context.Background(), Identity{UserID: int64(i), Name: fmt.Sprintf("p%d", i)}); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
}

func (f *fixture) doneCalls() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.doneNum
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()

	select {
	case <-s.Done():
	case <-time.After(testWait):
		t.Fatal("session did not finish")
	}
}

func waitLobbyCard(t *testing.T, f *fixture) {
	t.Helper()

	deadline := time.Now().Add(testWait)
	for len(f.transport.sentTexts()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("lobby card was not sent")
		}
		time.Sleep(time.Millisecond)
	}
}

func recvPair(t *testing.T, ch chan [2]int64) [2]int64 {
	t.Helper()

	select {
	case pair := <-ch:
		return pair
	case <-time.After(testWait):
		t.Fatal("timeout waiting for a turn")
	}

	return [2]int64{}
}

func recvBallot(t *testing.T, ch chan sentMessage) sentMessage {
	t.Helper()

	select {
	case msg := <-ch:
		return msg
	case <-time.After(testWait):
		t.Fatal("timeout waiting for a ballot")
	}

	return sentMessage{}
}

// playPairs answers every prompt of one round and checks nobody is paired twice.
func playPairs(t *testing.T, f *fixture, pairs int) {
	t.Helper()

	seen := map[int64]bool{}
	for i := 0; i < pairs; i++ {
		turn := recvPair(t, f.renderer.turns)
		for _, id := range turn {
			if seen[id] {
				t.Fatalf("player %d paired twice in a round", id)
			}
			seen[id] = true
		}

		if !f.session.HandleMessage(turn[0], "is it bigger than a car?") {
			t.Fatalf("question of %d was not accepted", turn[0])
		}

		if f.session.HandleMessage(turn[0], "late message") {
			t.Error("second message must not be accepted")
		}

		question := recvPair(t, f.renderer.questions)
		if question != turn {
			t.Fatalf("expected question pair %v got %v", turn, question)
		}

		if !f.session.HandleMessage(turn[1], "yes") {
			t.Fatalf("answer of %d was not accepted", turn[1])
		}
	}
}

func TestSessionCrewWinsAccusation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, rand.New(rand.NewSource(3)), nil)
	f.join(t, 5)
	f.session.Run(ctx)

	for round := 1; round <= 4; round++ {
		playPairs(t, f, 2)

		if round == 3 {
			ballot := recvBallot(t, f.transport.ballots)
			if len(ballot.buttons) != 1 {
				t.Fatalf("unexpected consensus buttons %v", ballot.buttons)
			}

			for _, v := range []struct {
				voter int64
				data  string
			}{{1, CallbackExtraRound}, {2, CallbackExtraRound}, {3, CallbackVoteNow}} {
				if _, err := f.session.HandleCallback(ctx, v.voter, v.data); err != nil {
					t.Fatalf("consensus vote of %d: %v", v.voter, err)
				}
			}

			if _, err := f.session.HandleCallback(ctx, 1, CallbackVoteNow); !errors.Is(err, ErrAlreadyVoted) {
				t.Errorf("expected ErrAlreadyVoted got %v", err)
			}

			if _, err := f.session.HandleCallback(ctx, 99, CallbackVoteNow); !errors.Is(err, ErrNotParticipant) {
				t.Errorf("expected ErrNotParticipant got %v", err)
			}
		}
	}

	var imposter Player
	var crew []Player
	for _, p := range f.session.Players() {
		if p.Imposter {
			imposter = p
		} else {
			crew = append(crew, p)
		}
	}

	if imposter.UserID == 0 || len(crew) != 4 {
		t.Fatalf("expected 1 imposter and 4 crew got %d crew", len(crew))
	}

	f.notifier.mtx.Lock()
	if len(f.notifier.roles) != 5 {
		t.Errorf("expected 5 role notices got %d", len(f.notifier.roles))
	}
	if strings.Contains(f.notifier.roles[imposter.UserID], "lighthouse") {
		t.Error("imposter must not see the secret word")
	}
	if !strings.Contains(f.notifier.roles[crew[0].UserID], "lighthouse") {
		t.Error("crew must see the secret word")
	}
	f.notifier.mtx.Unlock()

	text, err := f.session.HandleCallback(ctx, crew[1].UserID, CallbackRole)
	if err != nil || !strings.Contains(text, "lighthouse") {
		t.Errorf("unexpected role reveal %q, %v", text, err)
	}

	recvBallot(t, f.transport.ballots)
	if f.session.State() != StateKindVoting {
		t.Errorf("expected voting state got %s", f.session.State())
	}

	if _, err := f.session.HandleCallback(ctx, imposter.UserID, voteData(imposter.UserID)); !errors.Is(err, ErrSelfVote) {
		t.Errorf("expected ErrSelfVote got %v", err)
	}

	for _, voter := range crew[:3] {
		if _, err := f.session.HandleCallback(ctx, voter.UserID, voteData(imposter.UserID)); err != nil {
			t.Fatalf("vote of %d: %v", voter.UserID, err)
		}
	}

	waitDone(t, f.session)

	outcome := f.session.Outcome()
	if outcome == nil {
		t.Fatal("expected an outcome")
	}

	if outcome.Winner != TeamCrew || outcome.Reason != ReasonVote {
		t.Errorf("expected crew win by vote got %s, %d", outcome.Winner, outcome.Reason)
	}

	if outcome.VotedOut == nil || outcome.VotedOut.UserID != imposter.UserID {
		t.Errorf("expected %d voted out", imposter.UserID)
	}

	if outcome.Tally[imposter.UserID] != 3 || outcome.Rounds != 4 {
		t.Errorf("unexpected tally %v or rounds %d", outcome.Tally, outcome.Rounds)
	}

	f.ledger.mtx.Lock()
	if len(f.ledger.awards) != 4 {
		t.Fatalf("expected 4 awards got %v", f.ledger.awards)
	}
	for _, a := range f.ledger.awards {
		if a.userID == imposter.UserID || a.amount != 5 {
			t.Errorf("unexpected award %+v", a)
		}
	}
	f.ledger.mtx.Unlock()

	if f.session.State() != StateKindEnded || f.doneCalls() != 1 {
		t.Errorf("expected ended session with one teardown got %s, %d", f.session.State(), f.doneCalls())
	}

	if _, err := f.registry.Get(-100); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("finished session must leave the registry, got %v", err)
	}
}

func TestSessionSilentImposterKicked(t *testing.T) {
	t.Parallel()

	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.InteractionTimeout = 200 * time.Millisecond
	})
	f.join(t, 5)
	f.session.Run(context.Background())

	// a zero source makes player 2 the imposter and pairs 1 with 2 first
	turn := recvPair(t, f.renderer.turns)
	if turn != [2]int64{1, 2} {
		t.Fatalf("expected pair [1 2] got %v", turn)
	}

	if !f.session.HandleMessage(1, "what color is it?") {
		t.Fatal("question was not accepted")
	}

	recvPair(t, f.renderer.questions)
	waitDone(t, f.session)

	outcome := f.session.Outcome()
	if outcome == nil || outcome.Winner != TeamCrew || outcome.Reason != ReasonKick {
		t.Fatalf("expected crew win by kick got %+v", outcome)
	}

	if len(outcome.Kicked) != 1 || outcome.Kicked[0].UserID != 2 || !outcome.Kicked[0].Imposter {
		t.Errorf("expected imposter 2 kicked got %+v", outcome.Kicked)
	}

	if len(outcome.Players) != 4 || outcome.VotedOut != nil {
		t.Errorf("unexpected outcome %+v", outcome)
	}

	select {
	case msg := <-f.transport.ballots:
		t.Errorf("no vote expected, got %q", msg.text)
	default:
	}

	f.transport.mtx.Lock()
	if len(f.transport.notices[2]) != 1 {
		t.Errorf("kicked player must be notified")
	}
	f.transport.mtx.Unlock()

	f.ledger.mtx.Lock()
	if len(f.ledger.awards) != 4 {
		t.Errorf("expected 4 crew awards got %v", f.ledger.awards)
	}
	f.ledger.mtx.Unlock()
}

func TestSessionCancelledLobby(t *testing.T) {
	t.Parallel()

	f := newFixture(t, zeroRand{}, nil)
	f.join(t, 3)
	f.session.Run(context.Background())
	waitDone(t, f.session)

	if f.session.Outcome() != nil {
		t.Error("cancelled game must have no outcome")
	}

	if f.session.SecretWord() != "" {
		t.Error("roles must not be assigned")
	}

	var cancelled bool
	for _, text := range f.transport.sentTexts() {
		if strings.Contains(text, "Not enough players") {
			cancelled = true
		}
	}

	if !cancelled {
		t.Error("expected a cancel notice")
	}

	if err := f.session.Join(context.Background(), Identity{UserID: 10}); !errors.Is(err, ErrLobbyClosed) {
		t.Errorf("expected ErrLobbyClosed got %v", err)
	}
}

func TestSessionStopIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.LobbyTimeout = time.Hour
	})
	f.join(t, 2)
	f.session.Run(context.Background())

	f.session.Stop()
	f.session.Stop()
	waitDone(t, f.session)

	if f.doneCalls() != 1 {
		t.Errorf("expected one teardown got %d", f.doneCalls())
	}

	if f.session.State() != StateKindEnded {
		t.Errorf("expected ended got %s", f.session.State())
	}

	if err := f.session.Join(context.Background(), Identity{UserID: 3}); !errors.Is(err, ErrLobbyClosed) {
		t.Errorf("expected ErrLobbyClosed got %v", err)
	}

	if f.registry.Len() != 0 {
		t.Errorf("expected empty registry got %d", f.registry.Len())
	}
}

func TestSessionJoinAndBegin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.LobbyTimeout = time.Hour
		c.HostJoins = true
		c.MaxPlayers = 6
	})
	f.session.Run(ctx)
	waitLobbyCard(t, f)

	if err := f.session.Join(ctx, Identity{UserID: 1}); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("host already joined, got %v", err)
	}

	if err := f.session.Begin(1); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Errorf("expected ErrNotEnoughPlayers got %v", err)
	}

	for id := int64(2); id <= 6; id++ {
		if err := f.session.Join(ctx, Identity{UserID: id, Name: fmt.Sprintf("p%d", id)}); err != nil {
			t.Fatalf("join %d: %v", id, err)
		}
	}

	if err := f.session.Join(ctx, Identity{UserID: 7}); !errors.Is(err, ErrRosterFull) {
		t.Errorf("expected ErrRosterFull got %v", err)
	}

	if _, err := f.session.HandleCallback(ctx, 2, CallbackRole); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted got %v", err)
	}

	if err := f.session.Begin(2); !errors.Is(err, ErrNotHost) {
		t.Errorf("expected ErrNotHost got %v", err)
	}

	if err := f.session.Begin(1); err != nil {
		t.Fatalf("begin: %v", err)
	}

	recvPair(t, f.renderer.turns)
	if f.session.State() != StateKindPlaying {
		t.Errorf("expected playing got %s", f.session.State())
	}

	if err := f.session.Begin(1); !errors.Is(err, ErrLobbyClosed) {
		t.Errorf("expected ErrLobbyClosed got %v", err)
	}

	if _, err := f.session.HandleCallback(ctx, 3, voteData(4)); !errors.Is(err, ErrNoActiveVote) {
		t.Errorf("expected ErrNoActiveVote got %v", err)
	}

	f.session.Stop()
	waitDone(t, f.session)

	if f.session.Outcome() != nil {
		t.Error("stopped game must have no outcome")
	}

	f.transport.mtx.Lock()
	defer f.transport.mtx.Unlock()
	// five joins and the start edit of the lobby card
	if len(f.transport.edits) != 6 {
		t.Errorf("expected 6 lobby edits got %d", len(f.transport.edits))
	}
}

func TestSessionDoneAfterTeardown(t *testing.T) {
	t.Parallel()

	var mtx sync.Mutex
	var finished bool
	f := newFixture(t, zeroRand{}, func(c *Config) {
		doneFn := c.DoneFn
		c.DoneFn = func(s *Session) error {
			time.Sleep(100 * time.Millisecond)
			mtx.Lock()
			finished = true
			mtx.Unlock()
			return doneFn(s)
		}
	})
	f.join(t, 3)
	f.session.Run(context.Background())
	waitDone(t, f.session)

	mtx.Lock()
	defer mtx.Unlock()
	if !finished || f.doneCalls() != 1 {
		t.Errorf("done callback must complete before Done is closed, finished %v calls %d", finished, f.doneCalls())
	}

	if _, err := f.registry.Get(-100); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound got %v", err)
	}
}

func TestSessionSilentCrewKickedRoundGoesOn(t *testing.T) {
	t.Parallel()

	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.InteractionTimeout = 200 * time.Millisecond
	})
	f.join(t, 7)
	f.session.Run(context.Background())

	// a zero source makes 2 and 3 the imposters and pairs players in join order
	if turn := recvPair(t, f.renderer.turns); turn != [2]int64{1, 2} {
		t.Fatalf("expected pair [1 2] got %v", turn)
	}

	if turn := recvPair(t, f.renderer.turns); turn != [2]int64{3, 4} {
		t.Fatalf("expected pair [3 4] after the kick got %v", turn)
	}

	if n := len(f.session.Players()); n != 6 {
		t.Errorf("expected 6 players got %d", n)
	}

	for _, p := range f.session.Players() {
		if p.UserID == 1 {
			t.Error("silent player 1 must leave the roster")
		}
	}

	if f.session.State() != StateKindPlaying || f.session.Outcome() != nil {
		t.Errorf("game must go on, state %s", f.session.State())
	}

	f.transport.mtx.Lock()
	if len(f.transport.notices[1]) != 1 {
		t.Errorf("kicked player must be notified")
	}
	f.transport.mtx.Unlock()
}

func TestSessionCrewKicksHandImpostersWin(t *testing.T) {
	t.Parallel()

	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.InteractionTimeout = 150 * time.Millisecond
	})
	f.join(t, 5)
	f.session.Run(context.Background())

	// player 2 is the imposter; crew 1 and 3 stay silent as askers
	if turn := recvPair(t, f.renderer.turns); turn != [2]int64{1, 2} {
		t.Fatalf("expected pair [1 2] got %v", turn)
	}

	if turn := recvPair(t, f.renderer.turns); turn != [2]int64{3, 4} {
		t.Fatalf("expected pair [3 4] got %v", turn)
	}

	// second round: the imposter asks and crew 4 never answers
	if turn := recvPair(t, f.renderer.turns); turn != [2]int64{2, 4} {
		t.Fatalf("expected pair [2 4] got %v", turn)
	}

	if !f.session.HandleMessage(2, "does it float?") {
		t.Fatal("question was not accepted")
	}

	recvPair(t, f.renderer.questions)
	waitDone(t, f.session)

	outcome := f.session.Outcome()
	if outcome == nil || outcome.Winner != TeamImposter || outcome.Reason != ReasonKick {
		t.Fatalf("expected imposter win by kick got %+v", outcome)
	}

	var kicked []int64
	for _, p := range outcome.Kicked {
		kicked = append(kicked, p.UserID)
	}

	if fmt.Sprint(kicked) != "[1 3 4]" || outcome.VotedOut != nil || outcome.Rounds != 2 {
		t.Errorf("unexpected outcome kicked %v rounds %d", kicked, outcome.Rounds)
	}

	select {
	case msg := <-f.transport.ballots:
		t.Errorf("no vote expected, got %q", msg.text)
	default:
	}

	f.ledger.mtx.Lock()
	defer f.ledger.mtx.Unlock()
	if len(f.ledger.awards) != 1 || f.ledger.awards[0] != (award{userID: 2, amount: 10}) {
		t.Errorf("expected the imposter award got %v", f.ledger.awards)
	}
}

func TestSessionStopDuringTurn(t *testing.T) {
	t.Parallel()

	timeout := 100 * time.Millisecond
	f := newFixture(t, zeroRand{}, func(c *Config) {
		c.InteractionTimeout = timeout
	})
	f.join(t, 5)
	f.session.Run(context.Background())

	recvPair(t, f.renderer.turns)
	f.session.Stop()
	waitDone(t, f.session)

	// the turn card may still be on its way when the prompt hook fires
	time.Sleep(timeout)
	sent := len(f.transport.sentTexts())
	time.Sleep(2 * timeout)

	select {
	case turn := <-f.renderer.turns:
		t.Errorf("no turn expected after stop, got %v", turn)
	default:
	}

	if f.session.HandleMessage(1, "anyone there?") {
		t.Error("stopped session must not accept input")
	}

	if n := len(f.transport.sentTexts()); n != sent {
		t.Errorf("stopped session kept sending: %d messages, was %d", n, sent)
	}

	f.transport.mtx.Lock()
	defer f.transport.mtx.Unlock()
	if len(f.transport.notices) != 0 {
		t.Errorf("nobody must be kicked after stop, got %v", f.transport.notices)
	}
}
