package imposterbot

import (
	"time"

	"github.com/bloops-games/imposter/internal/database"
)

type Config struct {
	// Bot level admins, allowed to stop games and reset points in any chat
	AdminUsernames []string `envconfig:"IMPOSTER_ADMIN_USERNAMES"`

	// Chats where games may be started, empty means any group chat
	AllowedChats []int64 `envconfig:"IMPOSTER_ALLOWED_CHATS"`

	// Logging all requests and responses from telegram
	Debug bool `envconfig:"IMPOSTER_DEBUG" default:"false"`

	// Number of items in the cache
	CacheSize int `envconfig:"IMPOSTER_CACHE_SIZE" default:"1024"`

	// Port on which health check is launched
	Port string `envconfig:"IMPOSTER_PORT" default:"1234"`

	// profile port
	ProfPort string `envconfig:"IMPOSTER_PROF_PORT" default:"8888"`

	// Telegram bot token
	BotToken         string        `envconfig:"IMPOSTER_BOT_TOKEN"`
	TgBotPollTimeout time.Duration `envconfig:"IMPOSTER_TG_BOT_POLL_TIMEOUT" default:"60s"`

	// The player who opens a lobby joins it right away
	HostAutoJoin bool `envconfig:"IMPOSTER_HOST_AUTO_JOIN" default:"true"`

	LobbyTimeout       time.Duration `envconfig:"IMPOSTER_LOBBY_TIMEOUT" default:"60s"`
	InteractionTimeout time.Duration `envconfig:"IMPOSTER_INTERACTION_TIMEOUT" default:"60s"`
	ConsensusTimeout   time.Duration `envconfig:"IMPOSTER_CONSENSUS_TIMEOUT" default:"20s"`
	VoteTimeout        time.Duration `envconfig:"IMPOSTER_VOTE_TIMEOUT" default:"30s"`

	CrewReward      int `envconfig:"IMPOSTER_CREW_REWARD" default:"5"`
	ImposterReward  int `envconfig:"IMPOSTER_IMPOSTER_REWARD" default:"10"`
	LeaderboardSize int `envconfig:"IMPOSTER_LEADERBOARD_SIZE" default:"10"`

	// processed on its own, nested envconfig keys would get a DB_ prefix
	Db database.Config `ignored:"true"`
}
