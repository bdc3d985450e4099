package regressor

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseCell decodes one sample. BIDS tables mark missing samples as "n/a".
func parseCell(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "n/a", "na", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func decodeDelimited(data []byte, sep rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.ReuseRecord = false
	// TSV has no quoting convention.
	r.LazyQuotes = sep == '\t'
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrMalformedTable)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	table := &Table{Columns: make([]Column, len(header))}
	for i, name := range header {
		table.Columns[i].Name = strings.TrimSpace(name)
		table.Columns[i].Values = []float64{}
	}
	for row := 1; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
		}
		for i, cell := range record {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: row %d column %q: %q is not a number",
					ErrMalformedTable, row, table.Columns[i].Name, cell,
				)
			}
			table.Columns[i].Values = append(table.Columns[i].Values, v)
		}
	}
	return table, nil
}

// decodeMapping reads a mapping of column name to sample list. The YAML node
// API is used instead of a Go map so that key order survives decoding.
func decodeMapping(data []byte) (*Table, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedTable)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping of column name to samples", ErrMalformedTable)
	}
	table := &Table{Columns: make([]Column, 0, len(root.Content)/2)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%w: column %q is not a list", ErrMalformedTable, key.Value)
		}
		col := Column{Name: key.Value, Values: make([]float64, 0, len(value.Content))}
		for j, item := range value.Content {
			v, err := decodeSample(item)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: column %q sample %d: %v",
					ErrMalformedTable, key.Value, j, err,
				)
			}
			col.Values = append(col.Values, v)
		}
		table.Columns = append(table.Columns, col)
	}
	return table, nil
}

func decodeSample(node *yaml.Node) (float64, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("expected a number")
	}
	if node.Tag == "!!null" {
		return math.NaN(), nil
	}
	var v float64
	if err := node.Decode(&v); err == nil {
		return v, nil
	}
	v, err := parseCell(node.Value)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", node.Value)
	}
	return v, nil
}
