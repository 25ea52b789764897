package match

import (
	"fmt"

	"github.com/enescakir/emoji"
)

// Callback data carried by inline buttons.
const (
	CallbackJoin       = "join_game"
	CallbackRole       = "reveal_role"
	CallbackExtraRound = "extra_round_yes"
	CallbackVoteNow    = "extra_round_no"
	CallbackVotePrefix = "vote_"
)

var (
	JoinButton = Button{Text: emoji.Joystick.String() + " Join", Data: CallbackJoin}
	RoleButton = Button{Text: emoji.SeeNoEvilMonkey.String() + " Reveal my role", Data: CallbackRole}
)

func joinButtons() [][]Button {
	return [][]Button{{JoinButton}}
}

func roleButtons() [][]Button {
	return [][]Button{{RoleButton}}
}

func consensusButtons(extra, now int) [][]Button {
	return [][]Button{{
		{Text: fmt.Sprintf("%s Extra round (%d)", emoji.Rocket, extra), Data: CallbackExtraRound},
		{Text: fmt.Sprintf("%s Vote now (%d)", emoji.Loudspeaker, now), Data: CallbackVoteNow},
	}}
}
