package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCrew     Role = "crew"
	RoleImposter Role = "imposter"
)

func NewStat(userID, chatID int64) Stat {
	return Stat{ID: uuid.New(), UserID: userID, ChatID: chatID, Role: RoleCrew, CreatedAt: time.Now()}
}

// Stat is one player's record of one finished game.
type Stat struct {
	ID        uuid.UUID `json:"-"`
	SessionID string    `json:"sessionId"`
	UserID    int64     `json:"userID"`
	ChatID    int64     `json:"chatId"`

	Role       Role `json:"role"`
	Won        bool `json:"won"`
	Kicked     bool `json:"kicked"`
	VotedOut   bool `json:"votedOut"`
	Points     int  `json:"points"`
	Rounds     int  `json:"rounds"`
	PlayersNum int  `json:"playersNum"`

	CreatedAt time.Time `json:"createdAt"`
}

type AggregationStat struct {
	Count         int
	Wins          int
	ImposterGames int
	ImposterWins  int
	CrewWins      int
	Kicks         int
	Points        int
	LastPlayedAt  time.Time
}
