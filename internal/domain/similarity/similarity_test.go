package similarity

import (
	"errors"
	"math"
	"testing"

	"github.com/refind-app/refind/internal/domain"
)

const tolerance = 1e-9

func TestCosine_Identical(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}
	got, err := Cosine(v, v)
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if math.Abs(got-1) > tolerance {
		t.Errorf("Cosine(v, v) = %v, want 1", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	got, err := Cosine([]float32{1, 0}, []float32{0, 1})
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if math.Abs(got) > tolerance {
		t.Errorf("Cosine = %v, want 0", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	got, err := Cosine([]float32{1, 2}, []float32{-1, -2})
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if math.Abs(got+1) > tolerance {
		t.Errorf("Cosine = %v, want -1", got)
	}
}

func TestCosine_DimensionMismatch(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"different length", []float32{1, 2, 3}, []float32{1, 2}},
		{"empty a", nil, []float32{1, 2}},
		{"empty b", []float32{1, 2}, nil},
		{"both empty", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Cosine(tc.a, tc.b)
			if !errors.Is(err, domain.ErrDimensionMismatch) {
				t.Errorf("expected ErrDimensionMismatch, got %v", err)
			}
		})
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	got, err := Cosine([]float32{0, 0}, []float32{1, 2})
	if err != nil {
		t.Fatalf("Cosine failed: %v", err)
	}
	if got != 0 {
		t.Errorf("Cosine with zero vector = %v, want 0", got)
	}
}

func TestLocation(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"containment case-insensitive", "Central Park", "central park bench", 1},
		{"token overlap", "red wallet near gate 5", "blue bag by gate 5 north", 2.0 / 6.0},
		{"empty a", "", "somewhere", 0},
		{"empty b", "somewhere", "", 0},
		{"no overlap", "main street", "harbor pier", 0},
		{"identical", "bus stop 12", "bus stop 12", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Location(tc.a, tc.b)
			if math.Abs(got-tc.want) > tolerance {
				t.Errorf("Location(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestLocation_DuplicateTokensCountOnce(t *testing.T) {
	// Intersection is over token sets; repeated tokens add nothing to the
	// numerator, but raw token counts set the denominator.
	got := Location("gate gate gate one", "gate two here now")
	want := 1.0 / 4.0
	if math.Abs(got-want) > tolerance {
		t.Errorf("Location = %v, want %v", got, want)
	}
}

func TestCombined(t *testing.T) {
	got := Combined(0.9, 0.5)
	if math.Abs(got-0.82) > tolerance {
		t.Errorf("Combined(0.9, 0.5) = %v, want 0.82", got)
	}
}
