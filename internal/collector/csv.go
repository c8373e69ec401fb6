package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"VolumeScope/internal/model"
)

// CSVFetcher implements Fetcher from a local CSV file with a header of
// at least date,close,volume and optional high,low columns. Useful for
// replaying fixed historical series.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher { return &CSVFetcher{Path: path} }

func (f *CSVFetcher) Name() string { return "csv" }

// FetchDailyPoints reads the file and returns at most days points,
// newest-last. The symbol argument is ignored; the file is the series.
func (f *CSVFetcher) FetchDailyPoints(_ string, days int) ([]model.PricePoint, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv %s: no data rows", f.Path)
	}

	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "close", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s: missing column %q", f.Path, required)
		}
	}

	points := make([]model.PricePoint, 0, len(records)-1)
	for line, rec := range records[1:] {
		p := model.PricePoint{Date: strings.TrimSpace(rec[cols["date"]])}
		if p.Close, err = strconv.ParseFloat(rec[cols["close"]], 64); err != nil {
			return nil, fmt.Errorf("csv %s line %d: close: %w", f.Path, line+2, err)
		}
		if p.Volume, err = strconv.ParseFloat(rec[cols["volume"]], 64); err != nil {
			return nil, fmt.Errorf("csv %s line %d: volume: %w", f.Path, line+2, err)
		}
		if i, ok := cols["high"]; ok && rec[i] != "" {
			p.High, _ = strconv.ParseFloat(rec[i], 64)
		}
		if i, ok := cols["low"]; ok && rec[i] != "" {
			p.Low, _ = strconv.ParseFloat(rec[i], 64)
		}
		points = append(points, p)
	}

	if len(points) > days && days > 0 {
		points = points[len(points)-days:]
	}
	return points, nil
}
