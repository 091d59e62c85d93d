package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelterops/adoption-forecast/internal/adapters/secondary/csvfile"
)

func TestGenerateAdoptions_LoadsCleanly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "adoptions.csv")

	require.NoError(t, generateAdoptions(out, 14, 2, 5, 7, false))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs, err := csvfile.NewLoader(logger).Load(context.Background(), out)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, rs.Len(), 14*2)
	assert.LessOrEqual(t, rs.Len(), 14*5)
	assert.Equal(t, 14, rs.DayCount())

	first, last, ok := rs.DateRange()
	require.True(t, ok)
	assert.Equal(t, 13*24*time.Hour, last.Sub(first))

	for _, record := range rs.Records() {
		assert.Equal(t, "Adoption", record.Outcome)
		assert.Contains(t, []string{"Dog", "Cat", "Other"}, record.Species)
		assert.GreaterOrEqual(t, record.Hour, 8)
		assert.LessOrEqual(t, record.Hour, 21)
	}
}

func TestGenerateAdoptions_WeekendHeavy(t *testing.T) {
	out := filepath.Join(t.TempDir(), "adoptions.csv")

	// 28 consecutive days always contain exactly 8 weekend days.
	require.NoError(t, generateAdoptions(out, 28, 2, 5, 7, true))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rs, err := csvfile.NewLoader(logger).Load(context.Background(), out)
	require.NoError(t, err)

	weekend := 0
	for _, record := range rs.Records() {
		if isWeekend(record.Weekday) {
			weekend++
		}
	}

	// Expected share is about 70%; well above half even at the tails.
	share := float64(weekend) / float64(rs.Len())
	assert.Greater(t, share, 0.55)
}

func TestGenerateAdoptions_RejectsBadInputs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "adoptions.csv")

	assert.Error(t, generateAdoptions(out, 0, 2, 5, 7, false))
	assert.Error(t, generateAdoptions(out, -3, 2, 5, 7, false))
	assert.Error(t, generateAdoptions(out, 10, -1, 5, 7, false))
	assert.Error(t, generateAdoptions(out, 10, 6, 5, 7, false))
}
