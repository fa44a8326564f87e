package detection

import (
	"errors"
	"testing"
)

func TestNewHomography_MapsCorners(t *testing.T) {
	tests := []struct {
		name    string
		corners [4]Point
	}{
		{"axis square", [4]Point{{10, 10}, {50, 10}, {50, 50}, {10, 50}}},
		{"rotated", [4]Point{{30, 5}, {55, 30}, {30, 55}, {5, 30}}},
		{"perspective", [4]Point{{10, 10}, {60, 15}, {55, 60}, {5, 50}}},
		{"strong perspective", [4]Point{{100, 100}, {300, 120}, {280, 180}, {120, 170}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHomography(tt.corners)
			if err != nil {
				t.Fatalf("NewHomography failed: %v", err)
			}
			if h[8] != 1 {
				t.Errorf("h[8] = %v, want 1", h[8])
			}
			for k, q := range unitSquare {
				p, ok := h.Project(q.X, q.Y)
				if !ok {
					t.Fatalf("corner %d projects to infinity", k)
				}
				if p.Dist(tt.corners[k]) > 1e-6 {
					t.Errorf("corner %d: got (%.6f, %.6f), want %+v", k, p.X, p.Y, tt.corners[k])
				}
			}

			inv, err := h.Inverse()
			if err != nil {
				t.Fatalf("Inverse failed: %v", err)
			}
			for k, c := range tt.corners {
				q, ok := inv.Project(c.X, c.Y)
				if !ok {
					t.Fatalf("corner %d inverts to infinity", k)
				}
				if q.Dist(unitSquare[k]) > 1e-6 {
					t.Errorf("inverse corner %d: got (%.6f, %.6f), want %+v", k, q.X, q.Y, unitSquare[k])
				}
			}
		})
	}
}

func TestNewHomography_Centre(t *testing.T) {
	h, err := NewHomography([4]Point{{10, 10}, {50, 10}, {50, 50}, {10, 50}})
	if err != nil {
		t.Fatalf("NewHomography failed: %v", err)
	}
	c, _ := h.Project(0.5, 0.5)
	if c.Dist(Point{30, 30}) > 1e-9 {
		t.Errorf("centre (%.3f, %.3f), want (30, 30)", c.X, c.Y)
	}

	// Under perspective the centre is where the diagonals cross, not the
	// corner average.
	corners := [4]Point{{0, 0}, {100, 0}, {80, 50}, {20, 50}}
	h, err = NewHomography(corners)
	if err != nil {
		t.Fatalf("NewHomography failed: %v", err)
	}
	c, _ = h.Project(0.5, 0.5)
	want, _ := intersect(seg(corners[0], corners[2]), seg(corners[1], corners[3]))
	if c.Dist(want) > 1e-6 {
		t.Errorf("perspective centre (%.3f, %.3f), want (%.3f, %.3f)", c.X, c.Y, want.X, want.Y)
	}
}

func TestNewHomography_Degenerate(t *testing.T) {
	tests := []struct {
		name    string
		corners [4]Point
	}{
		{"collinear", [4]Point{{0, 0}, {10, 0}, {20, 0}, {5, 5}}},
		{"coincident", [4]Point{{0, 0}, {0, 0}, {10, 10}, {0, 10}}},
		{"all equal", [4]Point{{3, 3}, {3, 3}, {3, 3}, {3, 3}}},
		{"nearly collinear", [4]Point{{0, 0}, {100, 0}, {200, 0.01}, {0, 50}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHomography(tt.corners)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("got %v, want ErrDegenerateGeometry", err)
			}
		})
	}
}
