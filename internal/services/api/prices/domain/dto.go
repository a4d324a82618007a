// Package domain holds DTOs for the prices API
package domain

import (
	pdom "github.com/sliu810/razorback-investing/internal/services/prices/domain"
)

// day is the wire format for daily bar dates
const day = "2006-01-02"

// PerformanceRow is the wire view of a period's edge-close move
type PerformanceRow struct {
	Symbol     string  `json:"symbol"      example:"QQQ"`
	Period     string  `json:"period"      example:"ytd"`
	Start      string  `json:"start"       example:"2025-01-02"`
	End        string  `json:"end"         example:"2025-03-07"`
	StartClose float64 `json:"start_close" example:"511.2"`
	EndClose   float64 `json:"end_close"   example:"528.9"`
	ChangePct  float64 `json:"change_pct"  example:"3.5"`
}

// BarRow is the wire view of one stored daily bar
type BarRow struct {
	Day    string  `json:"day"    example:"2025-03-07"`
	Open   float64 `json:"open"   example:"525.1"`
	High   float64 `json:"high"   example:"530.4"`
	Low    float64 `json:"low"    example:"524.0"`
	Close  float64 `json:"close"  example:"528.9"`
	Volume int64   `json:"volume" example:"41250000"`
}

// SignalRow is the wire view of the TD counts on one bar
// zero counts are omitted so flat stretches stay readable
type SignalRow struct {
	Day       string  `json:"day"   example:"2025-03-07"`
	Close     float64 `json:"close" example:"528.9"`
	Setup     int     `json:"setup,omitempty"     example:"9"`
	Countdown int     `json:"countdown,omitempty" example:"13"`
}

// SeriesResponse carries the bars of one symbol inside a window
type SeriesResponse struct {
	Symbol string   `json:"symbol" example:"QQQ"`
	Start  string   `json:"start"  example:"2024-03-08"`
	End    string   `json:"end"    example:"2025-03-07"`
	Items  []BarRow `json:"items"`
}

// DemarkResponse carries the TD marks of one symbol inside a window
type DemarkResponse struct {
	Symbol string      `json:"symbol" example:"QQQ"`
	Start  string      `json:"start"  example:"2024-09-08"`
	End    string      `json:"end"    example:"2025-03-07"`
	Items  []SignalRow `json:"items"`
}

// FromPerformance maps a computed performance onto the wire row
func FromPerformance(p pdom.Performance) PerformanceRow {
	return PerformanceRow{
		Symbol:     p.Symbol,
		Period:     p.Period,
		Start:      p.Start.Format(day),
		End:        p.End.Format(day),
		StartClose: p.StartClose,
		EndClose:   p.EndClose,
		ChangePct:  p.ChangePct,
	}
}

// FromBar maps a stored bar onto the wire row
func FromBar(b pdom.Bar) BarRow {
	return BarRow{
		Day:    b.Day.Format(day),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}

// FromSignal maps a TD signal onto the wire row
func FromSignal(s pdom.Signal) SignalRow {
	return SignalRow{
		Day:       s.Day.Format(day),
		Close:     s.Close,
		Setup:     s.Setup,
		Countdown: s.Countdown,
	}
}
