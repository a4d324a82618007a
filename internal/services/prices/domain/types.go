// Package domain defines core types and interfaces for prices
package domain

import "time"

// Bar is one stored daily OHLCV row
type Bar struct {
	Symbol string
	Day    time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Performance is the move between the edge closes of a period window
// closes and the percentage are rounded to one decimal
type Performance struct {
	Symbol     string
	Period     string
	Start      time.Time
	End        time.Time
	StartClose float64
	EndClose   float64
	ChangePct  float64
}

// Signal carries the TD counts for one bar
type Signal struct {
	Day       time.Time
	Close     float64
	Setup     int
	Countdown int
}

// IngestReport counts what one ingest run did
// Stored can trail Fetched when upstream rows fall outside the window
type IngestReport struct {
	Symbol  string
	Fetched int
	Stored  int
}
