package datasets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Noofbiz/limelight/internal/atomicfile"
)

// sourceFields is the column order of a sources CSV.
var sourceFields = []string{"directory", "theme", "id"}

// WriteCSV writes the sources to path with a directory,theme,id header. The
// file is written to a temporary sibling and renamed into place.
func WriteCSV(sources DataPointSources, path string) error {
	return atomicfile.Write(path, func(w io.Writer) error {
		if err := encodeCSV(w, sources); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

func encodeCSV(w io.Writer, sources DataPointSources) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(sourceFields); err != nil {
		return err
	}
	record := make([]string, len(sourceFields))
	for _, src := range sources {
		fields := src.Fields()
		for i, name := range sourceFields {
			record[i] = fields[name]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV reads sources written by WriteCSV, preserving row order.
func ReadCSV(path string) (DataPointSources, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &RowError{Path: path, Line: 1, Err: fmt.Errorf("%w: missing header", ErrMalformedRow)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}
	for _, col := range sourceFields {
		if _, ok := colIndex[col]; !ok {
			return nil, &RowError{Path: path, Line: 1, Err: fmt.Errorf("%w: header lacks %q", ErrMalformedRow, col)}
		}
	}

	var sources DataPointSources
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		fields := make(map[string]string, len(sourceFields))
		for _, col := range sourceFields {
			if i := colIndex[col]; i < len(record) {
				fields[col] = record[i]
			}
		}
		src, err := SourceFromFields(fields)
		if err != nil {
			return nil, &RowError{Path: path, Line: line, Err: err}
		}
		sources = append(sources, src)
	}
	return sources, nil
}
