package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"rota-inteligente/internal/domain"
	"time"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "routing.plans.completed"

// PlanCompleted is the payload announced for each freshly computed plan.
type PlanCompleted struct {
	PlanID      string       `json:"plan_id"`
	Depot       domain.Point `json:"depot"`
	K           int          `json:"k"`
	Seed        int64        `json:"seed"`
	Converged   bool         `json:"converged"`
	GroupSizes  []int        `json:"group_sizes"`
	TotalLength float64      `json:"total_length"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NATSPublisher implements ports.PlanPublisher over a core NATS subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

// Connect dials NATS and keeps reconnecting in the background if the
// server goes away.
func Connect(url, subject string) (*NATSPublisher, error) {
	if url == "" {
		return nil, errors.New("nats url is empty")
	}
	if subject == "" {
		subject = DefaultSubject
	}

	nc, err := nats.Connect(url,
		nats.Name("rota-inteligente"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return NewNATSPublisher(nc, subject), nil
}

func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{nc: nc, subject: subject}
}

func (p *NATSPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodePlanCompleted(plan)
	if err != nil {
		return err
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

func EncodePlanCompleted(plan *domain.Plan) ([]byte, error) {
	if plan == nil {
		return nil, errors.New("encode plan event: plan is nil")
	}

	sizes := make([]int, len(plan.Groups))
	for i, g := range plan.Groups {
		sizes[i] = g.PointCount
	}

	evt := PlanCompleted{
		PlanID:      plan.ID,
		Depot:       plan.Depot,
		K:           plan.K,
		Seed:        plan.Seed,
		Converged:   plan.Converged,
		GroupSizes:  sizes,
		TotalLength: plan.TotalLength,
		CreatedAt:   plan.CreatedAt,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode plan event: %w", err)
	}
	return data, nil
}
