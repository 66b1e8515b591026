package models

import (
	"fmt"
	"time"
)

// MAlert is a threshold-crossing event emitted by the window detector.
type MAlert struct {
	Ticker          string        `json:"ticker"`
	BaselinePrice   float64       `json:"baseline_price"`
	BaselineTime    time.Time     `json:"baseline_time"`
	CurrentPrice    float64       `json:"current_price"`
	CurrentTime     time.Time     `json:"current_time"`
	PercentIncrease float64       `json:"percent_increase"`
	Window          time.Duration `json:"window"`
}

func (a MAlert) String() string {
	return fmt.Sprintf("ALERT! %s increased by %.2f%% (from %.2f at %s to %.2f at %s) within the last %s",
		a.Ticker, a.PercentIncrease,
		a.BaselinePrice, a.BaselineTime.Format("15:04:05"),
		a.CurrentPrice, a.CurrentTime.Format("15:04:05"),
		a.Window)
}
