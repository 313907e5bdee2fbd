package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/stats"
	"github.com/lixenwraith/cfart/trial"
)

// Column headers. The detail header keeps the lowercase "spawntime" of the
// established file format so existing spreadsheets keep working.
var (
	DetailHeader    = []string{"trial", "targetIndex", "spawntime", "clickTime", "reactionMs", "hitOuter", "hitInner", "score"}
	DirectionHeader = []string{"dir", "n", "avg_ms", "min_ms", "max_ms", "bull_pct"}
)

// ToDetailRows returns the header followed by one row per trial in order
func ToDetailRows(trials []trial.Trial) [][]string {
	rows := make([][]string, 0, len(trials)+1)
	rows = append(rows, DetailHeader)
	for i, t := range trials {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(t.TargetIndex),
			formatFloat(t.SpawnTime),
			formatFloat(t.ClickTime),
			formatFloat(t.ReactionMs),
			formatBool(t.HitOuter),
			formatBool(t.HitInner),
			strconv.Itoa(t.Score),
		})
	}
	return rows
}

// ToDirectionSummaryRows returns the header followed by one row per clock
// label, "12" first, in index order
func ToDirectionSummaryRows(trials []trial.Trial) [][]string {
	dirs := stats.ComputeDirectionStats(trials)
	rows := make([][]string, 0, len(dirs)+1)
	rows = append(rows, DirectionHeader)
	for i, d := range dirs {
		rows = append(rows, []string{
			geom.ClockLabel(i),
			strconv.Itoa(d.N),
			formatFloat(d.Avg()),
			formatFloat(d.MinMs),
			formatFloat(d.MaxMs),
			formatFloat(d.BullPct()),
		})
	}
	return rows
}

// WriteCSV encodes rows to w with LF line endings
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// DetailCSV renders the per-trial report
func DetailCSV(trials []trial.Trial) ([]byte, error) {
	return encode(ToDetailRows(trials))
}

// DirectionSummaryCSV renders the per-direction report
func DirectionSummaryCSV(trials []trial.Trial) ([]byte, error) {
	return encode(ToDirectionSummaryRows(trials))
}

func encode(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatFloat uses six fractional digits, the precision of the existing reports
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
