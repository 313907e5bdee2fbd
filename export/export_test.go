package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lixenwraith/cfart/stats"
	"github.com/lixenwraith/cfart/trial"
)

func sampleTrials() []trial.Trial {
	return []trial.Trial{
		trial.New(0, 10.0, 10.25, true, true),
		trial.New(3, 12.0, 12.5, true, false),
	}
}

func TestSummaryRecordJSONIsValid(t *testing.T) {
	data, err := ToSummaryRecord(sampleTrials(), 100).JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("invalid JSON: %s", data)
	}
	if bytes.Contains(data, []byte(",}")) {
		t.Errorf("trailing separator in %s", data)
	}

	want := `{"trials":100,"hits":2,"bullseyes":1,"totalScore":15,"avgReactionMs":375.000,"hitRate":0.020}`
	if string(data) != want {
		t.Errorf("JSON() = %s\nwant     %s", data, want)
	}
}

func TestSummaryRecordDecodes(t *testing.T) {
	data, err := ToSummaryRecord(sampleTrials(), 100).JSON()
	if err != nil {
		t.Fatal(err)
	}

	var generic map[string]float64
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	if generic["avgReactionMs"] != 375 || generic["hitRate"] != 0.02 {
		t.Errorf("decoded numbers = %v", generic)
	}

	var rec SummaryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("unmarshal into record: %v", err)
	}
	if rec.AvgReactionMs.StringFixed(3) != "375.000" {
		t.Errorf("avg = %s, want 375.000", rec.AvgReactionMs.StringFixed(3))
	}
}

func TestSummaryRecordEmpty(t *testing.T) {
	data, err := ToSummaryRecord(nil, 100).JSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `{"trials":100,"hits":0,"bullseyes":0,"totalScore":0,"avgReactionMs":0.000,"hitRate":0.000}`
	if string(data) != want {
		t.Errorf("JSON() = %s, want %s", data, want)
	}
}

func TestNewFixed3Rounding(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.000"},
		{1, "1.000"},
		{0.3333333, "0.333"},
		{2.0005, "2.001"},
		{287.12349, "287.123"},
	}
	for _, tt := range tests {
		if got := NewFixed3(tt.in).StringFixed(3); got != tt.want {
			t.Errorf("NewFixed3(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToDetailRows(t *testing.T) {
	rows := ToDetailRows(sampleTrials())
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if strings.Join(rows[0], ",") != "trial,targetIndex,spawntime,clickTime,reactionMs,hitOuter,hitInner,score" {
		t.Errorf("header = %v", rows[0])
	}

	want := [][]string{
		{"1", "0", "10.000000", "10.250000", "250.000000", "1", "1", "10"},
		{"2", "3", "12.000000", "12.500000", "500.000000", "1", "0", "5"},
	}
	for i, w := range want {
		if strings.Join(rows[i+1], ",") != strings.Join(w, ",") {
			t.Errorf("row %d = %v, want %v", i+1, rows[i+1], w)
		}
	}
}

func TestDetailCSVHundredRows(t *testing.T) {
	trials := make([]trial.Trial, 100)
	for i := range trials {
		trials[i] = trial.New(i%12, float64(i), float64(i)+0.3, true, false)
	}

	data, err := DetailCSV(trials)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if len(records) != 101 {
		t.Fatalf("got %d records, want 101", len(records))
	}
	if records[100][0] != "100" {
		t.Errorf("last ordinal = %s, want 100", records[100][0])
	}
	if bytes.Contains(data, []byte("\r\n")) {
		t.Error("expected LF line endings")
	}
}

func TestToDirectionSummaryRows(t *testing.T) {
	rows := ToDirectionSummaryRows(sampleTrials())
	if len(rows) != 13 {
		t.Fatalf("got %d rows, want header + 12", len(rows))
	}
	if strings.Join(rows[0], ",") != "dir,n,avg_ms,min_ms,max_ms,bull_pct" {
		t.Errorf("header = %v", rows[0])
	}

	labels := []string{"12", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"}
	for i, label := range labels {
		if rows[i+1][0] != label {
			t.Errorf("row %d label = %s, want %s", i+1, rows[i+1][0], label)
		}
	}

	noon := strings.Join(rows[1], ",")
	if noon != "12,1,250.000000,250.000000,250.000000,100.000000" {
		t.Errorf("noon row = %s", noon)
	}
	three := strings.Join(rows[4], ",")
	if three != "3,1,500.000000,500.000000,500.000000,0.000000" {
		t.Errorf("3 o'clock row = %s", three)
	}
	empty := strings.Join(rows[2], ",")
	if empty != "1,0,0.000000,0.000000,0.000000,0.000000" {
		t.Errorf("empty row = %s", empty)
	}
}

func TestDirectionSummaryCSVEmpty(t *testing.T) {
	data, err := DirectionSummaryCSV(nil)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 13 {
		t.Errorf("got %d lines, want 13", len(lines))
	}
}

func TestDirectionTable(t *testing.T) {
	lines := DirectionTable(stats.ComputeDirectionStats(sampleTrials()))
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	if lines[0] != "12     1    250.0  250.0 250.0  100.0%" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "1      0      0.0    0.0   0.0    0.0%" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestFinishedLine(t *testing.T) {
	o := stats.ComputeOverallStats(sampleTrials(), 100)
	got := FinishedLine(o, 100)
	want := "Hits: 2/100  Bullseyes: 1  Total Score: 15  Avg RT: 375.0 ms"
	if got != want {
		t.Errorf("FinishedLine = %q, want %q", got, want)
	}
}
