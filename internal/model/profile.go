package model

// Zone is one price bucket of a volume profile. The interval is
// half-open [MinPrice, MaxPrice) except the topmost zone, which is
// closed so the series maximum falls inside the profile.
type Zone struct {
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	Volume        float64 `json:"volume"`
	VolumePercent float64 `json:"volumePercent"`
}

// Mid returns the zone's midpoint price.
func (z Zone) Mid() float64 {
	return (z.MinPrice + z.MaxPrice) / 2
}

// PriceLevel is a single landmark price with its traded volume,
// used for the point of control.
type PriceLevel struct {
	Price         float64 `json:"price"`
	Volume        float64 `json:"volume"`
	VolumePercent float64 `json:"volumePercent"`
}

// VolumeNode is a high- or low-volume cluster of adjacent zones.
// For high-volume nodes Strength is the volume relative to the POC;
// for low-volume nodes it is the volume relative to the average zone.
type VolumeNode struct {
	MinPrice      float64 `json:"minPrice"`
	MaxPrice      float64 `json:"maxPrice"`
	Volume        float64 `json:"volume"`
	VolumePercent float64 `json:"volumePercent"`
	Strength      float64 `json:"strength"`
}

// Mid returns the node's midpoint price.
func (n VolumeNode) Mid() float64 {
	return (n.MinPrice + n.MaxPrice) / 2
}

// ProfileStats holds a computed volume-by-price distribution and its
// derived landmarks. Zones are immutable after construction.
type ProfileStats struct {
	Zones           []Zone       `json:"zones"`
	TotalVolume     float64      `json:"totalVolume"`
	BinWidth        float64      `json:"binWidth"`
	POC             *PriceLevel  `json:"poc"`
	ValueAreaLow    float64      `json:"valueAreaLow"`
	ValueAreaHigh   float64      `json:"valueAreaHigh"`
	HighVolumeNodes []VolumeNode `json:"highVolumeNodes"`
	LowVolumeNodes  []VolumeNode `json:"lowVolumeNodes"`
}

// SignalType classifies a profile-derived trading signal.
type SignalType string

const (
	SignalBuy     SignalType = "BUY"
	SignalSell    SignalType = "SELL"
	SignalHold    SignalType = "HOLD"
	SignalWatch   SignalType = "WATCH"
	SignalNeutral SignalType = "NEUTRAL"
)

// Signal is a fixed-shape trading signal derived from a profile.
type Signal struct {
	Type       SignalType `json:"type"`
	Reason     string     `json:"reason"`
	Price      float64    `json:"price"`
	Confidence float64    `json:"confidence"`
	Detail     string     `json:"detail"`
}
