package match

import "context"

type Identity struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Button struct {
	Text string
	Data string
}

// Transport delivers session output to the chat.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, buttons [][]Button) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, buttons [][]Button) error
	// Notify sends a private notice to one user.
	Notify(ctx context.Context, userID int64, text string) error
}

type RoleNotifier interface {
	NotifyRole(ctx context.Context, player Player, text string) error
}

type ScoreLedger interface {
	AddPoints(ctx context.Context, scopeID, userID int64, amount int) error
}

// Renderer turns session data into chat cards.
type Renderer interface {
	Lobby(players []Player, capacity int, started bool) string
	Cancelled(joined, min int) string
	Started(imposters int) string
	Role(player Player, secretWord string) string
	Round(idx int) string
	Turn(round int, asker, answerer Player) string
	Question(asker, answerer Player, question string) string
	Kick(player Player) string
	Consensus(extra, now int, closed bool) string
	ConsensusResult(extra bool) string
	Voting(candidates []Player, tally map[int64]int, closed bool) string
	Result(outcome Outcome) string
	Crashed() string
}
