package match

import (
	"time"

	"github.com/valyala/fastrand"
)

const (
	MinPlayers = 5
	MaxPlayers = 20

	// mandatory rounds before the extra-round vote
	defaultRoundsNum = 3

	defaultLobbyTimeout       = 60 * time.Second
	defaultInteractionTimeout = 60 * time.Second
	defaultConsensusTimeout   = 20 * time.Second
	defaultVoteTimeout        = 30 * time.Second

	defaultCrewReward     = 5
	defaultImposterReward = 10
)

// Rand is the random source used for roles, secret words and pairing.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type fastRand struct{}

func (fastRand) Intn(n int) int {
	return int(fastrand.Uint32n(uint32(n)))
}

type Config struct {
	ChatID int64
	Host   Identity
	// Host is added to the roster when the session is created
	HostJoins bool

	MinPlayers int
	MaxPlayers int
	RoundsNum  int

	LobbyTimeout       time.Duration
	InteractionTimeout time.Duration
	ConsensusTimeout   time.Duration
	VoteTimeout        time.Duration

	CrewReward     int
	ImposterReward int

	Words []string
	Rand  Rand

	Transport Transport
	Notifier  RoleNotifier
	Renderer  Renderer
	Ledger    ScoreLedger

	DoneFn func(session *Session) error
}

func (c Config) withDefaults() Config {
	if c.MinPlayers <= 0 {
		c.MinPlayers = MinPlayers
	}

	if c.MaxPlayers <= 0 {
		c.MaxPlayers = MaxPlayers
	}

	if c.RoundsNum <= 0 {
		c.RoundsNum = defaultRoundsNum
	}

	if c.LobbyTimeout <= 0 {
		c.LobbyTimeout = defaultLobbyTimeout
	}

	if c.InteractionTimeout <= 0 {
		c.InteractionTimeout = defaultInteractionTimeout
	}

	if c.ConsensusTimeout <= 0 {
		c.ConsensusTimeout = defaultConsensusTimeout
	}

	if c.VoteTimeout <= 0 {
		c.VoteTimeout = defaultVoteTimeout
	}

	if c.CrewReward <= 0 {
		c.CrewReward = defaultCrewReward
	}

	if c.ImposterReward <= 0 {
		c.ImposterReward = defaultImposterReward
	}

	if len(c.Words) == 0 {
		c.Words = []string{"apple"}
	}

	if c.Rand == nil {
		c.Rand = fastRand{}
	}

	if c.Renderer == nil {
		c.Renderer = TextRenderer{}
	}

	return c
}
