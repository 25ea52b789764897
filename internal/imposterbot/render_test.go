package imposterbot

import (
	"strings"
	"testing"

	scoreModel "github.com/bloops-games/imposter/internal/database/score/model"
	statModel "github.com/bloops-games/imposter/internal/database/stat/model"
	userModel "github.com/bloops-games/imposter/internal/database/user/model"
)

func TestRenderLeaderboard(t *testing.T) {
	t.Parallel()

	scores := []scoreModel.Score{{UserID: 1, Points: 30, Wins: 4}, {UserID: 2, Points: 20}, {UserID: 3, Points: 10}, {UserID: 4, Points: 5}}
	board := renderLeaderboard(scores, []string{"ann", "bob", "cid", "dan"})

	lines := strings.Split(strings.TrimSpace(board), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, blank line and 4 places got %q", board)
	}

	if !strings.Contains(lines[2], "ann - 30 pts, wins: 4") {
		t.Errorf("unexpected first place %q", lines[2])
	}

	if !strings.HasPrefix(lines[5], "4. dan") {
		t.Errorf("unexpected fourth place %q", lines[5])
	}
}

func TestRenderProfile(t *testing.T) {
	t.Parallel()

	u := userModel.User{FirstName: "snake_case"}
	profile := renderProfile(u, statModel.AggregationStat{Count: 3, Wins: 2, ImposterGames: 1, Points: 15})

	if !strings.Contains(profile, "snake\\_case") {
		t.Errorf("name must be escaped: %q", profile)
	}

	if !strings.Contains(profile, "Games: 3") || !strings.Contains(profile, "Points earned: 15") {
		t.Errorf("unexpected profile %q", profile)
	}
}
