package domain

import "time"

// Represents the closed visiting sequence for one group.
// Path starts and ends at the depot and lists every group point exactly once
// in between. Length is the sum of consecutive Euclidean distances along Path,
// closing leg included.
type Route struct {
	Path   []Point `json:"path"`
	Length float64 `json:"length"`
}

// Stops returns the visiting order without the depot at both ends.
func (r Route) Stops() []Point {
	if len(r.Path) < 2 {
		return nil
	}
	return r.Path[1 : len(r.Path)-1]
}

// Represents the routed result for a single partition group.
// ApproxMeters is the same path measured on the sphere, for reporting only.
type GroupPlan struct {
	GroupIndex   int     `json:"group_index"`
	PointCount   int     `json:"point_count"`
	Centroid     Point   `json:"centroid"`
	Route        Route   `json:"route"`
	ApproxMeters float64 `json:"approx_meters"`
}

// Represents the outcome of one planning run: partition plus one route per group.
// It is immutable planning data and contains no side effects.
type Plan struct {
	ID                string      `json:"id"`
	Depot             Point       `json:"depot"`
	K                 int         `json:"k"`
	Seed              int64       `json:"seed"`
	Iterations        int         `json:"iterations"`
	Converged         bool        `json:"converged"`
	Groups            []GroupPlan `json:"groups"`
	TotalLength       float64     `json:"total_length"`
	TotalApproxMeters float64     `json:"total_approx_meters"`
	CreatedAt         time.Time   `json:"created_at"`
}
