package service

import (
	"context"

	"liencrm_backend/internal/geo"
)

// Waypoint is one candidate stop handed to the optimizer.
type Waypoint struct {
	Latitude  float64
	Longitude float64
}

// Optimizer decides the visiting order of a route's waypoints. The start
// point is the agent's position when known, nil otherwise. It returns a
// permutation of input indexes; the first element is visited first.
type Optimizer interface {
	Optimize(ctx context.Context, start *Waypoint, waypoints []Waypoint) ([]int, error)
}

// IdentityOptimizer keeps the order the agent submitted. Agents plan around
// appointment windows the system cannot see, so their order wins by default.
type IdentityOptimizer struct{}

// Optimize returns the input order unchanged.
func (IdentityOptimizer) Optimize(_ context.Context, _ *Waypoint, waypoints []Waypoint) ([]int, error) {
	order := make([]int, len(waypoints))
	for i := range waypoints {
		order[i] = i
	}
	return order, nil
}

// NearestNeighborOptimizer reorders waypoints greedily: begin at the stop
// closest to the start point, or at the first submitted stop when no start
// is given, then repeatedly hop to the closest unvisited one. Not optimal,
// but a cheap improvement over arbitrary order for larger routes.
type NearestNeighborOptimizer struct{}

// Optimize returns a greedy nearest-neighbor ordering.
func (NearestNeighborOptimizer) Optimize(_ context.Context, start *Waypoint, waypoints []Waypoint) ([]int, error) {
	n := len(waypoints)
	if n == 0 {
		return []int{}, nil
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	if start != nil {
		for candidate := 1; candidate < n; candidate++ {
			if distanceBetween(*start, waypoints[candidate]) < distanceBetween(*start, waypoints[current]) {
				current = candidate
			}
		}
	}
	order = append(order, current)
	visited[current] = true

	for len(order) < n {
		next := -1
		best := 0.0
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			d := distanceBetween(waypoints[current], waypoints[candidate])
			if next == -1 || d < best {
				next = candidate
				best = d
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}

	return order, nil
}

func distanceBetween(a, b Waypoint) float64 {
	return geo.DistanceKM(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// RouteLength sums consecutive great-circle hops over waypoints in the
// given order, in kilometers.
func RouteLength(waypoints []Waypoint, order []int) float64 {
	total := 0.0
	for i := 1; i < len(order); i++ {
		prev := waypoints[order[i-1]]
		curr := waypoints[order[i]]
		total += geo.DistanceKM(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
	}
	return total
}
