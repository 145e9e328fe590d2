package stats

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"driftline/game"
)

// RunRecord is one finished run
type RunRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Run      int
	Elapsed  float64
	Distance float64
	Score    int
	Coins    int
	Invalid  bool

	// Details holds where the run ended, see RunDetails
	Details datatypes.JSON `json:"details"`
}

// TableName keeps the table name stable across struct renames
func (RunRecord) TableName() string {
	return "run_records"
}

// RunDetails is the decoded form of RunRecord.Details
type RunDetails struct {
	X        *float64 `json:"x,omitempty"`
	Z        *float64 `json:"z,omitempty"`
	Heading  *float64 `json:"heading,omitempty"`
	Segments int      `json:"segments"`
}

// DecodeDetails unpacks the JSON details column
func (r RunRecord) DecodeDetails() (RunDetails, error) {
	var d RunDetails
	if len(r.Details) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(r.Details, &d); err != nil {
		return d, fmt.Errorf("decoding run details: %w", err)
	}
	return d, nil
}

// totalsRow is the single row holding Totals
type totalsRow struct {
	ID        uint `gorm:"primaryKey"`
	UpdatedAt time.Time

	BestTime  float64
	BestScore int
	Crashes   int
	Attempts  int
	Coins     int
}

func (totalsRow) TableName() string {
	return "totals"
}

func (r totalsRow) totals() Totals {
	return Totals{
		BestTime:  r.BestTime,
		BestScore: r.BestScore,
		Crashes:   r.Crashes,
		Attempts:  r.Attempts,
		Coins:     r.Coins,
	}
}

// newRunRecord converts a crash into a history row. The pose is left out of
// the details when it is not finite, since JSON has no NaN.
func newRunRecord(ev game.CrashEvent) (RunRecord, error) {
	d := RunDetails{Segments: ev.Segments}
	if ev.Pose.Finite() {
		x, z, h := ev.Pose.X, ev.Pose.Z, ev.Pose.Heading
		d.X, d.Z, d.Heading = &x, &z, &h
	}
	details, err := json.Marshal(d)
	if err != nil {
		return RunRecord{}, fmt.Errorf("encoding run details: %w", err)
	}

	return RunRecord{
		Run:      ev.Run,
		Elapsed:  ev.Elapsed,
		Distance: ev.Distance,
		Score:    ev.Score,
		Coins:    ev.Coins,
		Invalid:  ev.Invalid,
		Details:  datatypes.JSON(details),
	}, nil
}
