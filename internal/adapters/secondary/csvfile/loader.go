package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shelterops/adoption-forecast/internal/core/domain"
	apperrors "github.com/shelterops/adoption-forecast/internal/core/errors"
	"github.com/shelterops/adoption-forecast/internal/core/ports"
)

// Required header columns. Column order does not matter and extra columns
// are ignored.
const (
	columnOutcome      = "Outcome"
	columnAnimalNumber = "AnimalNumber"
	columnSpecies      = "Species"
	columnDateTime     = "DateTime"
)

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Loader reads adoption records from a CSV file. A load either succeeds for
// every row or fails as a whole; there is no partial result.
type Loader struct {
	logger *slog.Logger
}

var _ ports.RecordSource = (*Loader)(nil)

// NewLoader creates a new CSV loader
func NewLoader(logger *slog.Logger) ports.RecordSource {
	return &Loader{logger: logger.With("component", "csv_loader")}
}

// Load reads, validates and normalizes the file at path into an immutable
// record set.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSourceNotFound, path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrMissingColumn, "empty file has no header")
		}
		return nil, fmt.Errorf("%w: reading header: %v", apperrors.ErrParseFailure, err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.AdoptionRecord
	row := 1 // header was row 1
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", apperrors.ErrParseFailure, row, err)
		}

		raw := fields[columns.dateTime]
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %q", apperrors.ErrParseFailure, row, raw)
		}

		records = append(records, domain.NewAdoptionRecord(
			fields[columns.outcome],
			fields[columns.animalNumber],
			fields[columns.species],
			ts,
		))
	}

	rs := domain.NewRecordSet(records)
	l.logger.Info("dataset loaded",
		"path", path,
		"records", rs.Len(),
		"days", rs.DayCount(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rs, nil
}

type columnIndex struct {
	outcome      int
	animalNumber int
	species      int
	dateTime     int
}

// indexColumns locates the required columns in the header row. The first
// cell may carry a UTF-8 byte order mark, which is stripped before matching.
func indexColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[strings.TrimSpace(name)] = i
	}

	idx := columnIndex{}
	for _, required := range []struct {
		name string
		dest *int
	}{
		{columnOutcome, &idx.outcome},
		{columnAnimalNumber, &idx.animalNumber},
		{columnSpecies, &idx.species},
		{columnDateTime, &idx.dateTime},
	} {
		pos, ok := positions[required.name]
		if !ok {
			return columnIndex{}, fmt.Errorf("%w: %s", apperrors.ErrMissingColumn, required.name)
		}
		*required.dest = pos
	}
	return idx, nil
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, apperrors.ErrParseFailure
}
