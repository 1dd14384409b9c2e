package dto

type PointDTO struct {
	ID  string  `json:"id,omitempty"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ListPointsResponse struct {
	Points []PointDTO `json:"points"`
}
