package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/parkvision-mcp/internal/imaging"
)

var (
	markerRed  = imaging.RGB{R: 220, G: 30, B: 40}
	markerBlue = imaging.RGB{R: 20, G: 60, B: 210}
)

func testLocator(t *testing.T, budget int) *SeedLocator {
	t.Helper()
	first, second := markerRed, markerBlue
	l, err := NewSeedLocator(TargetColors{First: &first, Second: &second, Tolerance: DefaultColorTolerance}, budget)
	require.NoError(t, err)
	return l
}

func TestNewSeedLocator_Validation(t *testing.T) {
	red := markerRed

	_, err := NewSeedLocator(TargetColors{First: &red}, 0)
	assert.True(t, errors.Is(err, ErrMissingTargetColors))

	_, err = NewSeedLocator(TargetColors{Second: &red}, 0)
	assert.True(t, errors.Is(err, ErrMissingTargetColors))

	_, err = NewSeedLocator(TargetColors{First: &red, Second: &red, Tolerance: -1}, 0)
	assert.Error(t, err)

	l, err := NewSeedLocator(TargetColors{First: &red, Second: &red}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultBisectionBudget, l.budget)
}

func TestLocate_MiddleRowFirstMatchWins(t *testing.T) {
	f := testFrame(t, newGray(40, 100, 0))
	paint(f, 5, 50, markerRed)
	paint(f, 30, 50, markerRed)
	paint(f, 12, 50, markerBlue)

	got := testLocator(t, 0).Locate(f)

	want := []image.Point{{5, 50}, {12, 50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Locate mismatch (-want +got):\n%s", diff)
	}
}

func TestLocate_OrderIsFirstColorThenSecond(t *testing.T) {
	f := testFrame(t, newGray(40, 100, 0))
	// Second color sits on the middle row, first color deeper in the lower half.
	paint(f, 3, 50, markerBlue)
	paint(f, 7, 12, markerRed)

	got := testLocator(t, 0).Locate(f)

	want := []image.Point{{7, 12}, {3, 50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Locate mismatch (-want +got):\n%s", diff)
	}
}

func TestLocate_RowsReachedByBisection(t *testing.T) {
	// For a height of 100 the default budget reaches rows 50, then
	// 25, 12, 6, 3, 1, 0 below and 75, 62, 56, 53, 51 above.
	tests := []struct {
		name  string
		row   int
		found bool
	}{
		{"middle", 50, true},
		{"lower quarter", 25, true},
		{"lower deep", 6, true},
		{"top row", 0, true},
		{"upper quarter", 75, true},
		{"upper deep", 53, true},
		{"between scanned rows", 40, false},
		{"upper unreached", 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame(t, newGray(40, 100, 0))
			paint(f, 20, tt.row, markerRed)

			got := testLocator(t, 0).Locate(f)
			if tt.found {
				assert.Equal(t, []image.Point{{20, tt.row}}, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestLocate_BudgetLimitsDepth(t *testing.T) {
	f := testFrame(t, newGray(40, 100, 0))
	paint(f, 9, 12, markerRed)

	assert.Empty(t, testLocator(t, 1).Locate(f), "budget 1 scans only row 25 below the middle")
	assert.Equal(t, []image.Point{{9, 12}}, testLocator(t, 2).Locate(f))
}

func TestLocate_Tolerance(t *testing.T) {
	tests := []struct {
		name  string
		px    imaging.RGB
		found bool
	}{
		{"exact", markerRed, true},
		{"at tolerance", imaging.RGB{R: 240, G: 10, B: 60}, true},
		{"one past tolerance", imaging.RGB{R: 241, G: 30, B: 40}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame(t, newGray(10, 10, 0))
			paint(f, 4, 5, tt.px)

			got := testLocator(t, 0).Locate(f)
			assert.Equal(t, tt.found, len(got) == 1)
		})
	}
}

func TestLocate_NoMarkers(t *testing.T) {
	f := testFrame(t, newGray(30, 30, 0))
	got := testLocator(t, 0).Locate(f)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocate_DoesNotModifyFrame(t *testing.T) {
	f := testFrame(t, newGray(20, 20, 7))
	paint(f, 1, 10, markerRed)
	beforeColor := append([]uint8(nil), f.Color.Pix...)
	beforeGray := append([]uint8(nil), f.Gray.Pix...)

	testLocator(t, 0).Locate(f)

	assert.Equal(t, beforeColor, f.Color.Pix)
	assert.Equal(t, beforeGray, f.Gray.Pix)
}

func TestLocateSeeds_CarriesIntensity(t *testing.T) {
	g := newGray(20, 20, 0)
	g.Pix[g.PixOffset(4, 10)] = 180
	f := testFrame(t, g)
	paint(f, 4, 10, markerBlue)

	got := testLocator(t, 0).LocateSeeds(f)

	want := []Seed{{X: 4, Y: 10, Intensity: 180}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LocateSeeds mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, image.Pt(4, 10), got[0].Point())
}
