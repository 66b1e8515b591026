package utils_test

import (
	"testing"
	"time"

	"price-streamer/src/utils"
)

// Noon UTC keeps the date stable across the exchange timezone conversion.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestTradingCalendar_Weekdays(t *testing.T) {
	cal := utils.NewTradingCalendar("xnys")

	if !cal.IsTradingDay(day(2024, time.May, 13)) { // Monday
		t.Error("Monday 2024-05-13 should be a trading day")
	}
	if cal.IsTradingDay(day(2024, time.May, 11)) { // Saturday
		t.Error("Saturday 2024-05-11 should not be a trading day")
	}
	if cal.IsTradingDay(day(2024, time.May, 12)) { // Sunday
		t.Error("Sunday 2024-05-12 should not be a trading day")
	}
}

func TestTradingCalendar_Holiday(t *testing.T) {
	cal := utils.NewTradingCalendar("xnys")
	if cal.Fallback {
		t.Skip("xnys calendar unavailable, fallback has no holidays")
	}

	// Independence Day, a Thursday.
	if cal.IsTradingDay(day(2024, time.July, 4)) {
		t.Error("2024-07-04 should be an NYSE holiday")
	}
}

func TestTradingCalendar_PreviousTradingSession(t *testing.T) {
	cal := utils.NewTradingCalendar("xnys")

	// Monday looks back across the weekend to Friday.
	prev := cal.PreviousTradingSession(day(2024, time.May, 13))
	if prev.Format("2006-01-02") != "2024-05-10" {
		t.Errorf("expected 2024-05-10, got %s", prev.Format("2006-01-02"))
	}

	// Midweek is just the previous day.
	prev = cal.PreviousTradingSession(day(2024, time.May, 15))
	if prev.Format("2006-01-02") != "2024-05-14" {
		t.Errorf("expected 2024-05-14, got %s", prev.Format("2006-01-02"))
	}
}

func TestTradingCalendar_UnknownMICFallsBack(t *testing.T) {
	cal := utils.NewTradingCalendar("zzzz")

	// Either the xnys fallback or the Mon-Fri fallback should load; the
	// constructor never returns nil.
	if cal == nil {
		t.Fatal("calendar constructor returned nil")
	}
	if cal.IsTradingDay(day(2024, time.May, 11)) {
		t.Error("Saturday should never be a trading day, even in fallback")
	}
}
