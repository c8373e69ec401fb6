package model

// BreakSignal is a directional breakout (or breakdown) event emitted
// by the windowed detector. Immutable once emitted; the detector
// produces them in chronological order.
type BreakSignal struct {
	Date                 string  `json:"date"`
	Price                float64 `json:"price"`
	IsUpBreak            bool    `json:"isUpBreak"`
	WindowIndex          int     `json:"windowIndex"`
	SupportLevel         float64 `json:"supportLevel,omitempty"`
	ResistanceLevel      float64 `json:"resistanceLevel,omitempty"`
	TriggeringZoneWeight float64 `json:"triggeringZoneWeight"`
}

// BreakWindow is one processed detector window, as an inclusive index
// range over the zoomed series.
type BreakWindow struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}
