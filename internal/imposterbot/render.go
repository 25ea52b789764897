package imposterbot

import (
	"strconv"
	"strings"

	scoreModel "github.com/bloops-games/imposter/internal/database/score/model"
	statModel "github.com/bloops-games/imposter/internal/database/stat/model"
	userModel "github.com/bloops-games/imposter/internal/database/user/model"
	"github.com/bloops-games/imposter/internal/strpool"
	"github.com/enescakir/emoji"
)

var placeIcons = []emoji.Emoji{emoji.FirstPlaceMedal, emoji.SecondPlaceMedal, emoji.ThirdPlaceMedal}

func renderLeaderboard(scores []scoreModel.Score, names []string) string {
	buf := strpool.Get()
	defer strpool.Release(buf)

	buf.WriteString(emoji.Trophy.String())
	buf.WriteString(" Leaderboard\n\n")
	for i, score := range scores {
		if i < len(placeIcons) {
			buf.WriteString(placeIcons[i].String())
		} else {
			buf.WriteString(strconv.Itoa(i + 1))
			buf.WriteString(".")
		}

		buf.WriteString(" ")
		buf.WriteString(names[i])
		buf.WriteString(" - ")
		buf.WriteString(strconv.Itoa(score.Points))
		buf.WriteString(" pts, wins: ")
		buf.WriteString(strconv.Itoa(score.Wins))
		buf.WriteString("\n")
	}

	return buf.String()
}

func renderProfile(u userModel.User, stat statModel.AggregationStat) string {
	buf := strpool.Get()
	defer strpool.Release(buf)

	buf.WriteString(emoji.Alien.String())
	buf.WriteString(" Player profile ")
	buf.WriteString("*")
	buf.WriteString(escapeMarkdown(u.DisplayName()))
	buf.WriteString("*")
	buf.WriteString("\n\n")
	buf.WriteString(emoji.VideoGame.String())
	buf.WriteString(" Games: ")
	buf.WriteString(strconv.Itoa(stat.Count))
	buf.WriteString("\n")
	buf.WriteString(emoji.Star.String() + " Wins: ")
	buf.WriteString(strconv.Itoa(stat.Wins))
	buf.WriteString("\n")
	buf.WriteString(emoji.Ninja.String() + " Imposter games: ")
	buf.WriteString(strconv.Itoa(stat.ImposterGames))
	buf.WriteString(", won: ")
	buf.WriteString(strconv.Itoa(stat.ImposterWins))
	buf.WriteString("\n")
	buf.WriteString(emoji.CheckMarkButton.String() + " Crew wins: ")
	buf.WriteString(strconv.Itoa(stat.CrewWins))
	buf.WriteString("\n")
	buf.WriteString(emoji.Bomb.String() + " Kicked: ")
	buf.WriteString(strconv.Itoa(stat.Kicks))
	buf.WriteString("\n")
	buf.WriteString(emoji.HundredPoints.String())
	buf.WriteString(" Points earned: ")
	buf.WriteString(strconv.Itoa(stat.Points))

	return buf.String()
}

var markdownReplacer = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escapeMarkdown(s string) string {
	return markdownReplacer.Replace(s)
}
