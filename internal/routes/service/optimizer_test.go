package service

import (
	"context"
	"testing"
)

// Four stops on the same meridian north of downtown Dallas. Consecutive
// 0.01 degree latitude steps are roughly 1.11 km apart.
var meridianStops = []Waypoint{
	{Latitude: 32.7767, Longitude: -96.7970},
	{Latitude: 32.8267, Longitude: -96.7970},
	{Latitude: 32.7867, Longitude: -96.7970},
	{Latitude: 32.8067, Longitude: -96.7970},
}

func TestIdentityOptimizerKeepsOrder(t *testing.T) {
	order, err := IdentityOptimizer{}.Optimize(context.Background(), nil, meridianStops)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	want := []int{0, 1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("Optimize() returned %d positions, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestNearestNeighborOptimizerWalksNorth(t *testing.T) {
	order, err := NearestNeighborOptimizer{}.Optimize(context.Background(), nil, meridianStops)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}

	// Starting at the southernmost stop the greedy walk visits the stops
	// in ascending latitude: indexes 0, 2, 3 then 1.
	want := []int{0, 2, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("Optimize() returned %d positions, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestNearestNeighborOptimizerAnchorsAtStart(t *testing.T) {
	// An agent positioned north of every stop enters the route at the
	// northernmost one and the greedy walk heads south: 1, 3, 2, 0.
	start := &Waypoint{Latitude: 32.9000, Longitude: -96.7970}

	order, err := NearestNeighborOptimizer{}.Optimize(context.Background(), start, meridianStops)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	want := []int{1, 3, 2, 0}
	if len(order) != len(want) {
		t.Fatalf("Optimize() returned %d positions, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestNearestNeighborOptimizerEmptyInput(t *testing.T) {
	order, err := NearestNeighborOptimizer{}.Optimize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(order) != 0 {
		t.Fatalf("Optimize() returned %d positions for empty input", len(order))
	}
}

func TestRouteLengthShorterAfterOptimization(t *testing.T) {
	submitted := RouteLength(meridianStops, []int{0, 1, 2, 3})
	optimized := RouteLength(meridianStops, []int{0, 2, 3, 1})

	if optimized >= submitted {
		t.Fatalf("optimized length %.3f km not shorter than submitted %.3f km", optimized, submitted)
	}
	// The optimized walk covers 0.05 degrees of latitude, about 5.6 km.
	if optimized < 5.0 || optimized > 6.0 {
		t.Errorf("optimized length = %.3f km, want roughly 5.6", optimized)
	}
}

func TestRouteLengthSingleStop(t *testing.T) {
	if got := RouteLength(meridianStops[:1], []int{0}); got != 0 {
		t.Fatalf("RouteLength() = %.3f for a single stop, want 0", got)
	}
}
