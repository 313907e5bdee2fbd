// Package export turns a session's trials into the machine-readable summary
// record and the two CSV reports. All functions are pure.
package export

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/lixenwraith/cfart/stats"
	"github.com/lixenwraith/cfart/trial"
)

// Fixed3 is a decimal that always encodes as a JSON number with exactly three
// fractional digits
type Fixed3 struct {
	decimal.Decimal
}

// NewFixed3 rounds v half away from zero to three places
func NewFixed3(v float64) Fixed3 {
	return Fixed3{decimal.NewFromFloat(v).Round(3)}
}

// MarshalJSON writes the value unquoted, e.g. 250.000
func (f Fixed3) MarshalJSON() ([]byte, error) {
	return []byte(f.StringFixed(3)), nil
}

// SummaryRecord is the flat result submitted at the end of a session
type SummaryRecord struct {
	Trials        int    `json:"trials"`
	Hits          int    `json:"hits"`
	Bullseyes     int    `json:"bullseyes"`
	TotalScore    int    `json:"totalScore"`
	AvgReactionMs Fixed3 `json:"avgReactionMs"`
	HitRate       Fixed3 `json:"hitRate"`
}

// ToSummaryRecord builds the summary for trials recorded against a configured
// trial count. Trials reports the configured count.
func ToSummaryRecord(trials []trial.Trial, configuredTrials int) SummaryRecord {
	o := stats.ComputeOverallStats(trials, configuredTrials)
	return SummaryRecord{
		Trials:        configuredTrials,
		Hits:          o.HitCount,
		Bullseyes:     o.BullseyeCount,
		TotalScore:    o.TotalScore,
		AvgReactionMs: NewFixed3(o.AvgReactionMs),
		HitRate:       NewFixed3(o.HitRate),
	}
}

// JSON encodes the record compactly
func (r SummaryRecord) JSON() ([]byte, error) {
	return json.Marshal(r)
}
