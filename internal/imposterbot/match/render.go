package match

import (
	"fmt"
	"strings"

	"github.com/bloops-games/imposter/internal/strpool"
	"github.com/bloops-games/imposter/internal/util"
	"github.com/enescakir/emoji"
)

// TextRenderer is the default plain text card renderer.
type TextRenderer struct{}

func (TextRenderer) Lobby(players []Player, capacity int, started bool) string {
	buf := strpool.Get()
	defer strpool.Release(buf)

	if started {
		fmt.Fprintf(buf, "%s Game started!\n", emoji.VideoGame)
	} else {
		fmt.Fprintf(buf, "%s Imposter lobby is open, press Join to play\n", emoji.Joystick)
	}

	fmt.Fprintf(buf, "Players %d/%d\n", len(players), capacity)
	for i, p := range players {
		fmt.Fprintf(buf, "%d. %s\n", i+1, p.Name)
	}

	return buf.String()
}

func (TextRenderer) Cancelled(joined, min int) string {
	return fmt.Sprintf("%s Not enough players: %s joined, at least %d needed. Game cancelled.", emoji.CrossMark, util.Count(joined, "player", "players"), min)
}

func (TextRenderer) Started(imposters int) string {
	return fmt.Sprintf("%s Roles are assigned, %s among you. Check your role!", emoji.Ninja, util.Count(imposters, "imposter is", "imposters are"))
}

func (TextRenderer) Role(p Player, secretWord string) string {
	if p.Imposter {
		return fmt.Sprintf("%s You are the imposter. Blend in and guess the word!", emoji.Ninja)
	}

	return fmt.Sprintf("%s You are crew. The secret word is: %s", emoji.CheckMarkButton, secretWord)
}

func (TextRenderer) Round(idx int) string {
	return fmt.Sprintf("%s Round %d", emoji.ChequeredFlag, idx)
}

func (TextRenderer) Turn(round int, asker, answerer Player) string {
	return fmt.Sprintf("%s Round %d: %s, ask %s a question about the word", emoji.Loudspeaker, round, asker.Name, answerer.Name)
}

func (TextRenderer) Question(asker, answerer Player, question string) string {
	return fmt.Sprintf("%s %s asks: %s\n%s, your answer?", emoji.Pen, asker.Name, question, answerer.Name)
}

func (TextRenderer) Kick(p Player) string {
	role := "crew"
	if p.Imposter {
		role = "an imposter"
	}

	return fmt.Sprintf("%s %s was kicked for inactivity, they were %s", emoji.Bomb, p.Name, role)
}

func (TextRenderer) Consensus(extra, now int, closed bool) string {
	if closed {
		return fmt.Sprintf("%s Voting closed: extra round %d, vote now %d", emoji.Stopwatch, extra, now)
	}

	return fmt.Sprintf("%s Play one more round or vote now? Extra round %d, vote now %d", emoji.GameDie, extra, now)
}

func (TextRenderer) ConsensusResult(extra bool) string {
	if extra {
		return fmt.Sprintf("%s One more round!", emoji.Rocket)
	}

	return fmt.Sprintf("%s Time to find the imposter!", emoji.Loudspeaker)
}

func (TextRenderer) Voting(candidates []Player, tally map[int64]int, closed bool) string {
	buf := strpool.Get()
	defer strpool.Release(buf)

	if closed {
		fmt.Fprintf(buf, "%s Voting closed\n", emoji.Stopwatch)
	} else {
		fmt.Fprintf(buf, "%s Who is the imposter?\n", emoji.Alien)
	}

	for _, p := range candidates {
		fmt.Fprintf(buf, "%s: %d\n", p.Name, tally[p.UserID])
	}

	return buf.String()
}

func (TextRenderer) Result(o Outcome) string {
	buf := strpool.Get()
	defer strpool.Release(buf)

	switch o.Winner {
	case TeamCrew:
		fmt.Fprintf(buf, "%s Crew wins!\n", emoji.Trophy)
	default:
		fmt.Fprintf(buf, "%s Imposters win!\n", emoji.Ninja)
	}

	switch o.Reason {
	case ReasonNoVotes:
		buf.WriteString("Nobody voted.\n")
	case ReasonVote:
		if o.VotedOut != nil {
			fmt.Fprintf(buf, "%s was voted out.\n", o.VotedOut.Name)
		}
	}

	names := make([]string, 0, len(o.Imposters))
	for _, p := range o.Imposters {
		names = append(names, p.Name)
	}

	fmt.Fprintf(buf, "Imposters: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(buf, "Secret word: %s", o.SecretWord)

	return buf.String()
}

func (TextRenderer) Crashed() string {
	return fmt.Sprintf("%s The game crashed, sorry. Start a new one with /imposter", emoji.BrokenHeart)
}
