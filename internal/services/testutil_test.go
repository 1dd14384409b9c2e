package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"rota-inteligente/internal/domain"
	"sync"
)

var testDepot = domain.Point{ID: "depot", Lat: -23.5505, Lon: -46.6333}

// scatter returns n points normally distributed around the test depot.
func scatter(n int, seed uint64) []domain.Point {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	pts := make([]domain.Point, n)
	for i := range pts {
		pts[i] = domain.Point{
			ID:  fmt.Sprintf("p%02d", i+1),
			Lat: testDepot.Lat + rng.NormFloat64()*0.08,
			Lon: testDepot.Lon + rng.NormFloat64()*0.1,
		}
	}
	return pts
}

type mockPointRepo struct {
	points []domain.Point
	err    error
	calls  int
}

func (m *mockPointRepo) ListPoints(ctx context.Context) ([]domain.Point, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.points, nil
}

type mockPlanCache struct {
	mu     sync.Mutex
	plans  map[string]*domain.Plan
	getErr error
	puts   int
}

func newMockPlanCache() *mockPlanCache {
	return &mockPlanCache{plans: map[string]*domain.Plan{}}
}

func (m *mockPlanCache) Get(ctx context.Context, key string) (*domain.Plan, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	p, ok := m.plans[key]
	return p, ok, nil
}

func (m *mockPlanCache) Put(ctx context.Context, key string, plan *domain.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.plans[key] = plan
	return nil
}

type mockPublisher struct {
	published []*domain.Plan
	err       error
}

func (m *mockPublisher) PublishPlan(ctx context.Context, plan *domain.Plan) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, plan)
	return nil
}

var errBoom = errors.New("boom")
