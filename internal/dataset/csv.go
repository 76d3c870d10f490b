package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesprep/internal/domain"
)

// Required key columns. Every other numeric column is a measurement and is
// carried through the pipeline verbatim.
const (
	colStore = "store"
	colBrand = "brand"
	colWeek  = "week"

	colLogmove = "logmove"
)

// ParseCSV reads raw sales observations from CSV data. The first row must
// be a header naming at least the store, brand, and week columns (any
// case). logmove and all remaining columns are parsed as nullable floats;
// empty and "NA" cells are treated as absent.
func ParseCSV(r io.Reader) ([]domain.Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &SchemaError{Line: 1, Reason: fmt.Sprintf("reading header: %v", err)}
	}

	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(name))
	}

	idx := func(name string) int {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
		return -1
	}
	storeIdx, brandIdx, weekIdx := idx(colStore), idx(colBrand), idx(colWeek)
	if storeIdx < 0 || brandIdx < 0 || weekIdx < 0 {
		return nil, &SchemaError{Line: 1, Reason: fmt.Sprintf("header %v is missing one of the required columns store, brand, week", cols)}
	}

	var obs []domain.Observation
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &SchemaError{Line: line, Reason: fmt.Sprintf("reading row: %v", err)}
		}

		o, err := parseRow(cols, row, storeIdx, brandIdx, weekIdx, line)
		if err != nil {
			return nil, err
		}
		obs = append(obs, o)
	}
	return obs, nil
}

func parseRow(cols, row []string, storeIdx, brandIdx, weekIdx, line int) (domain.Observation, error) {
	key := func(i int, name string) (int, error) {
		v, err := strconv.Atoi(strings.TrimSpace(row[i]))
		if err != nil {
			return 0, &SchemaError{Line: line, Reason: fmt.Sprintf("%s value %q is not an integer", name, row[i])}
		}
		return v, nil
	}

	store, err := key(storeIdx, colStore)
	if err != nil {
		return domain.Observation{}, err
	}
	brand, err := key(brandIdx, colBrand)
	if err != nil {
		return domain.Observation{}, err
	}
	week, err := key(weekIdx, colWeek)
	if err != nil {
		return domain.Observation{}, err
	}

	o := domain.Observation{Store: store, Brand: brand, Week: week}
	for i, name := range cols {
		if i == storeIdx || i == brandIdx || i == weekIdx {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" || strings.EqualFold(cell, "na") {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return domain.Observation{}, &SchemaError{Line: line, Reason: fmt.Sprintf("%s value %q is not numeric", name, cell)}
		}
		if name == colLogmove {
			lm := v
			o.Logmove = &lm
			continue
		}
		if o.Measures == nil {
			o.Measures = make(map[string]float64)
		}
		o.Measures[name] = v
	}
	return o, nil
}
