package dto

import "time"

// PlanRequest is the POST /plans body. Omitted fields fall back to the
// server's configured planner defaults; omitted points load from the database.
type PlanRequest struct {
	Depot         *PointDTO  `json:"depot"`
	K             *int       `json:"k"`
	Seed          *int64     `json:"seed"`
	MaxIterations *int       `json:"max_iterations"`
	Points        []PointDTO `json:"points"`
}

type GroupResponse struct {
	GroupIndex   int        `json:"group_index"`
	PointCount   int        `json:"point_count"`
	Centroid     PointDTO   `json:"centroid"`
	Route        []PointDTO `json:"route"`
	Length       float64    `json:"length"`
	ApproxMeters float64    `json:"approx_meters"`
}

type PlanResponse struct {
	PlanID            string          `json:"plan_id"`
	Depot             PointDTO        `json:"depot"`
	K                 int             `json:"k"`
	Seed              int64           `json:"seed"`
	Iterations        int             `json:"iterations"`
	Converged         bool            `json:"converged"`
	Groups            []GroupResponse `json:"groups"`
	TotalLength       float64         `json:"total_length"`
	TotalApproxMeters float64         `json:"total_approx_meters"`
	CreatedAt         time.Time       `json:"created_at"`
}
