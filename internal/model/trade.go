package model

// Trade is one simulated round trip. The final trade of a replay may
// remain open (IsOpen) if the series ends while holding; IsCutoff
// marks exits forced by the trailing stop.
type Trade struct {
	BuyPrice  float64 `json:"buyPrice"`
	BuyDate   string  `json:"buyDate"`
	SellPrice float64 `json:"sellPrice"`
	SellDate  string  `json:"sellDate"`
	PLPercent float64 `json:"plPercent"`
	IsCutoff  bool    `json:"isCutoff"`
	IsOpen    bool    `json:"isOpen"`
}
