package domain

import "fmt"

// Courier aggregate: one partition group waiting to be sequenced from the depot.
type Courier struct {
	CourierID int
	Depot     Point
	Centroid  Point
	Stops     []Point
}

func NewCourier(id int, depot Point) *Courier {
	return &Courier{
		CourierID: id,
		Depot:     depot,
	}
}

// Load a single delivery point onto the courier.
func (c *Courier) Load(p Point) error {
	if !p.IsFinite() {
		return fmt.Errorf("load courier: courier %d: point %q has non-finite coordinates: %w", c.CourierID, p.ID, ErrInvalidArgument)
	}
	c.Stops = append(c.Stops, p)
	return nil
}

// Load multiple delivery points onto the courier.
func (c *Courier) LoadMultiple(points []Point) error {
	for _, p := range points {
		if err := c.Load(p); err != nil {
			return err
		}
	}

	return nil
}
