package selfplay

import (
	"fmt"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/hailam/chessmind/internal/storage"
)

// Summary describes a batch of self-play games.
type Summary struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Draws      int
	Unfinished int

	MeanPlies  float64
	StdPlies   float64
	MeanMoveMs float64
	StdMoveMs  float64
}

// Summarize aggregates records. Standard deviations are zero with fewer than
// two samples.
func Summarize(records []*storage.GameRecord) Summary {
	records = lo.Compact(records)
	s := Summary{Games: len(records)}

	plies := make([]float64, 0, len(records))
	var moveTimes []float64
	for _, rec := range records {
		switch rec.Result {
		case "1-0":
			s.WhiteWins++
		case "0-1":
			s.BlackWins++
		case "1/2-1/2":
			s.Draws++
		default:
			s.Unfinished++
		}
		plies = append(plies, float64(rec.Plies))
		moveTimes = append(moveTimes, lo.Map(rec.MoveTimes, func(ms int64, _ int) float64 {
			return float64(ms)
		})...)
	}

	s.MeanPlies, s.StdPlies = meanStdDev(plies)
	s.MeanMoveMs, s.StdMoveMs = meanStdDev(moveTimes)
	return s
}

func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func (s Summary) String() string {
	return fmt.Sprintf("games=%d +%d -%d =%d *%d plies=%.1f±%.1f move=%.1fms±%.1f",
		s.Games, s.WhiteWins, s.BlackWins, s.Draws, s.Unfinished,
		s.MeanPlies, s.StdPlies, s.MeanMoveMs, s.StdMoveMs)
}
