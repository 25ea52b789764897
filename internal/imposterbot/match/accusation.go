package match

import (
	"strconv"
	"strings"
)

const votingButtonsPerRow = 5

func newAccusation(candidates []Player) *accusation {
	return &accusation{
		candidates: candidates,
		votes:      map[int64]int64{},
		tally:      map[int64]int{},
	}
}

type accusation struct {
	// roster snapshot taken when voting opened
	candidates []Player
	votes      map[int64]int64
	tally      map[int64]int
	// candidates in the order they received their first vote
	order []int64
}

func (a *accusation) vote(voterID int64, data string) error {
	if !strings.HasPrefix(data, CallbackVotePrefix) {
		return ErrNoActiveVote
	}

	targetID, err := strconv.ParseInt(strings.TrimPrefix(data, CallbackVotePrefix), 10, 64)
	if err != nil {
		return ErrUnknownCandidate
	}

	if _, ok := a.votes[voterID]; ok {
		return ErrAlreadyVoted
	}

	if targetID == voterID {
		return ErrSelfVote
	}

	if _, ok := a.candidate(targetID); !ok {
		return ErrUnknownCandidate
	}

	a.votes[voterID] = targetID
	if a.tally[targetID] == 0 {
		a.order = append(a.order, targetID)
	}
	a.tally[targetID]++

	return nil
}

func (a *accusation) candidate(userID int64) (Player, bool) {
	for _, p := range a.candidates {
		if p.UserID == userID {
			return p, true
		}
	}

	return Player{}, false
}

func (a *accusation) card(rnd Renderer, closed bool) (string, [][]Button) {
	text := rnd.Voting(a.candidates, a.copyTally(), closed)
	if closed {
		return text, nil
	}

	var rows [][]Button
	var row []Button
	for i, p := range a.candidates {
		if i > 0 && i%votingButtonsPerRow == 0 {
			rows = append(rows, row)
			row = nil
		}

		row = append(row, Button{
			Text: p.Name + " (" + strconv.Itoa(a.tally[p.UserID]) + ")",
			Data: CallbackVotePrefix + strconv.FormatInt(p.UserID, 10),
		})
	}

	if len(row) > 0 {
		rows = append(rows, row)
	}

	return text, rows
}

func (a *accusation) copyTally() map[int64]int {
	tally := make(map[int64]int, len(a.tally))
	for id, n := range a.tally {
		tally[id] = n
	}

	return tally
}

func (a *accusation) leader() (int64, bool) {
	return Leader(a.order, a.tally)
}

// Leader returns the candidate with the most votes. On a tie the candidate that reached
// the maximum first in order keeps the lead. ok is false when nobody got a vote.
func Leader(order []int64, tally map[int64]int) (int64, bool) {
	var leader int64
	var max int
	for _, id := range order {
		if tally[id] > max {
			max = tally[id]
			leader = id
		}
	}

	return leader, max > 0
}

// ResolveAccusation decides the winner of the final vote. No voted-out player is an imposter win.
func ResolveAccusation(votedOut Player, ok bool) Team {
	if !ok {
		return TeamImposter
	}

	if votedOut.Imposter {
		return TeamCrew
	}

	return TeamImposter
}

// CheckKick evaluates the win condition right after a player was removed for inactivity.
func CheckKick(kickedImposter bool, imposters, crew int) Team {
	if kickedImposter && imposters == 0 {
		return TeamCrew
	}

	if !kickedImposter && imposters >= crew {
		return TeamImposter
	}

	if imposters+crew < 2 {
		return TeamImposter
	}

	return TeamNone
}
