package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shishaboy/epymetheus/internal/core"
	"github.com/shishaboy/epymetheus/internal/market"
)

// ReadCSV parses a price table: a header of "bar" plus one column per asset,
// then one row per bar with the bar label followed by prices.
func ReadCSV(r io.Reader) (*market.Universe, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("reading csv: %w", err))
	}
	if len(records) < 2 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("csv has no price rows"))
	}

	header := records[0]
	if len(header) < 2 {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("csv has no asset columns"))
	}
	assets := header[1:]

	bars := make([]string, 0, len(records)-1)
	prices := make([][]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, core.WrapError(core.ErrShapeMismatch,
				fmt.Errorf("row %d has %d fields, want %d", i+1, len(rec), len(header)))
		}
		row := make([]float64, len(assets))
		for j, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, core.WrapError(core.ErrNoData,
					fmt.Errorf("row %d asset %q: %w", i+1, assets[j], err))
			}
			row[j] = v
		}
		bars = append(bars, rec[0])
		prices = append(prices, row)
	}

	return market.New(bars, assets, prices)
}

// LoadCSV reads a price table from a file.
func LoadCSV(path string) (*market.Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV renders a universe back to the price-table format ReadCSV parses.
func WriteCSV(w io.Writer, u *market.Universe) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{"bar"}, u.Assets()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, bar := range u.Bars() {
		rec := make([]string, 0, len(header))
		rec = append(rec, bar)
		for j := range u.Assets() {
			rec = append(rec, strconv.FormatFloat(u.PriceAt(i, j), 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
