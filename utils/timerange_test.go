package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		aStart, aEnd   time.Time
		bStart, bEnd   time.Time
		wantOverlap  bool
	}{
		{"identical intervals", base, base.Add(2 * time.Hour), base, base.Add(2 * time.Hour), true},
		{"partial overlap", base, base.Add(2 * time.Hour), base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"containment", base, base.Add(4 * time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"exact abutment does not overlap", base, base.Add(2 * time.Hour), base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"abutment reversed", base.Add(2 * time.Hour), base.Add(4 * time.Hour), base, base.Add(2 * time.Hour), false},
		{"disjoint", base, base.Add(time.Hour), base.Add(3 * time.Hour), base.Add(4 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOverlap, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.wantOverlap, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestDateKey(t *testing.T) {
	instant := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-06-01", DateKey(instant, time.UTC))
	// Stable across repeated calls.
	assert.Equal(t, DateKey(instant, time.UTC), DateKey(instant, time.UTC))
	// The same instant can fall on the next day in an eastern timezone.
	assert.Equal(t, "2024-06-02", DateKey(instant, mustLoc(t, "Asia/Tokyo")))
}

func TestAdjacentDateKeys(t *testing.T) {
	assert.Equal(t, []string{"2024-05-31", "2024-06-01", "2024-06-02"}, AdjacentDateKeys("2024-06-01"))
	// Month and year boundaries.
	assert.Equal(t, []string{"2023-12-31", "2024-01-01", "2024-01-02"}, AdjacentDateKeys("2024-01-01"))
	// Malformed keys degrade to just themselves.
	assert.Equal(t, []string{"not-a-date"}, AdjacentDateKeys("not-a-date"))
}
