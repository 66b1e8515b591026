package models

import (
	"strconv"
	"time"
)

// MPriceUpdate is one entry of a broadcast batch. A batch is serialized as a
// JSON array of these, all sharing the tick's capture timestamp.
type MPriceUpdate struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Timestamp ISOTime `json:"timestamp"`
}

// -----------------------------------------------------------------------------

// ISOTime serializes as ISO-8601 with an explicit numeric UTC offset
// (e.g. "2024-05-15T12:00:00.000000+00:00") to match the wire contract.
type ISOTime struct {
	time.Time
}

const isoLayout = "2006-01-02T15:04:05.000000-07:00"

func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(isoLayout))), nil
}

func (t *ISOTime) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	// RFC3339 parsing accepts both "Z" and "+00:00" style offsets.
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
