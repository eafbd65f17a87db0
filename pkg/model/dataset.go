package model

// Parsing of per-dataset measurement files. These are loaded on demand when
// a selection is submitted, never at startup.

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var measurementColumns = []string{"gene_id", "logCPM", "log2_fold_change", "FDR"}

// ParseMeasurements reads a measurement csv. The header must name the four
// expected columns; extra columns are ignored.
func ParseMeasurements(r io.Reader) ([]*Measurement, error) {

	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read measurement header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	idx := make([]int, 0, len(measurementColumns))
	for _, c := range measurementColumns {
		i, ok := pos[c]
		if !ok {
			return nil, fmt.Errorf("measurement file missing column %q", c)
		}
		idx = append(idx, i)
	}

	results := make([]*Measurement, 0, 1000)

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("measurement line %d: %w", line, err)
		}

		for _, i := range idx {
			if i >= len(record) {
				return nil, fmt.Errorf("measurement line %d: short record", line)
			}
		}

		m := Measurement{GeneID: strings.TrimSpace(record[idx[0]])}

		if m.LogCPM, err = strconv.ParseFloat(strings.TrimSpace(record[idx[1]]), 64); err != nil {
			return nil, fmt.Errorf("measurement line %d: bad logCPM: %w", line, err)
		}
		if m.Log2FC, err = strconv.ParseFloat(strings.TrimSpace(record[idx[2]]), 64); err != nil {
			return nil, fmt.Errorf("measurement line %d: bad log2_fold_change: %w", line, err)
		}
		if m.FDR, err = strconv.ParseFloat(strings.TrimSpace(record[idx[3]]), 64); err != nil {
			return nil, fmt.Errorf("measurement line %d: bad FDR: %w", line, err)
		}

		results = append(results, &m)
	}

	return results, nil
}
