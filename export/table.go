package export

import (
	"fmt"

	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/stats"
)

// DirectionTableTitle heads the on-screen per-direction table
const DirectionTableTitle = "Per-Direction stats"

// DirectionTableHeader lines up with the rows of DirectionTable
const DirectionTableHeader = "Dir     N   Avg(ms)   Min   Max   Bull%"

// DirectionTable formats one fixed-width text line per clock position
func DirectionTable(dirs stats.Directions) []string {
	lines := make([]string, 0, len(dirs))
	for i, d := range dirs {
		lines = append(lines, fmt.Sprintf("%-3s  %3d  %7.1f  %5.1f %5.1f  %5.1f%%",
			geom.ClockLabel(i), d.N, d.Avg(), d.MinMs, d.MaxMs, d.BullPct()))
	}
	return lines
}

// FinishedLine is the one-line session summary shown once all trials are done
func FinishedLine(o stats.Overall, configuredTrials int) string {
	return fmt.Sprintf("Hits: %d/%d  Bullseyes: %d  Total Score: %d  Avg RT: %.1f ms",
		o.HitCount, configuredTrials, o.BullseyeCount, o.TotalScore, o.AvgReactionMs)
}
