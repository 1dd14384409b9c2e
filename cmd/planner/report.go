package main

import (
	"fmt"
	"io"
	"rota-inteligente/internal/domain"
)

// writeReport prints one line per courier followed by the grand total.
func writeReport(w io.Writer, plan *domain.Plan) error {
	for _, g := range plan.Groups {
		if _, err := fmt.Fprintf(w, "Courier %d: %d stops. Distance: %.4f\n",
			g.GroupIndex, len(g.Route.Stops()), g.Route.Length); err != nil {
			return err
		}
	}

	if !plan.Converged {
		if _, err := fmt.Fprintf(w, "Warning: partition stopped after %d iterations without converging\n",
			plan.Iterations); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "Total distance (all couriers): %.4f\n", plan.TotalLength)
	return err
}
