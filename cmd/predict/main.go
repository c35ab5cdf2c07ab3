package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	sonic "github.com/bytedance/sonic"

	"github.com/hoopsight/fantasy-basketball/internal/domain/team"
	"github.com/hoopsight/fantasy-basketball/internal/infrastructure/provider/memory"
	"github.com/hoopsight/fantasy-basketball/internal/platform/logging"
	"github.com/hoopsight/fantasy-basketball/internal/usecase"
)

// predict runs one prediction against the seeded in-memory league and
// prints the result as JSON. Handy for eyeballing engine output without
// standing up the API.
func main() {
	home := flag.String("home", "", "home team code, e.g. LAL")
	away := flag.String("away", "", "away team code, e.g. BOS")
	player := flag.String("player", "", "player name for a forecast")
	opponent := flag.String("opponent", "", "opponent team code for a matchup report")
	games := flag.Int("games", 0, "recent-game window, 0 uses the default")
	overUnder := flag.Bool("over-under", false, "recommend a side of the total line instead of a full prediction")
	flag.Parse()

	logger := logging.NewNop()
	provider := memory.SeedLeague()
	directory := team.NewDirectory()

	predictionSvc := usecase.NewPredictionService(
		provider,
		directory,
		usecase.PredictionConfig{Season: "2024-25"},
		logger,
	)

	ctx := context.Background()

	var (
		result any
		err    error
	)
	switch {
	case *player != "" && *opponent != "":
		result, err = predictionSvc.AnalyzeMatchup(ctx, *player, *opponent, *games)
	case *player != "":
		result, err = predictionSvc.ForecastPlayer(ctx, *player, *games)
	case *home != "" && *away != "" && *overUnder:
		result, err = predictionSvc.PredictOverUnder(ctx, *home, *away)
	case *home != "" && *away != "":
		result, err = predictionSvc.PredictGame(ctx, *home, *away)
	default:
		fmt.Fprintln(os.Stderr, "usage: predict -home LAL -away BOS [-over-under] | -player \"LeBron James\" [-games 5] [-opponent BOS]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "predict:", err)
		os.Exit(1)
	}

	out, err := sonic.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "predict:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
