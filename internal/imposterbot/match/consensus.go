package match

// ballot is a timed vote accepting one callback per voter.
type ballot interface {
	vote(voterID int64, data string) error
	card(rnd Renderer, closed bool) (string, [][]Button)
}

func newConsensus() *consensus {
	return &consensus{voters: map[int64]bool{}}
}

// consensus decides whether an extra round is played.
type consensus struct {
	extra  int
	now    int
	voters map[int64]bool
}

func (c *consensus) vote(voterID int64, data string) error {
	if data != CallbackExtraRound && data != CallbackVoteNow {
		return ErrNoActiveVote
	}

	if c.voters[voterID] {
		return ErrAlreadyVoted
	}

	c.voters[voterID] = true
	if data == CallbackExtraRound {
		c.extra++
	} else {
		c.now++
	}

	return nil
}

func (c *consensus) card(rnd Renderer, closed bool) (string, [][]Button) {
	text := rnd.Consensus(c.extra, c.now, closed)
	if closed {
		return text, nil
	}

	return text, consensusButtons(c.extra, c.now)
}

func (c *consensus) result() bool {
	return ResolveConsensus(c.extra, c.now)
}

// ResolveConsensus requires an outright majority of the votes cast, a tie or no votes means "vote now".
func ResolveConsensus(extra, now int) bool {
	return extra > now
}
