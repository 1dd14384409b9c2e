package domain

// Assignment maps each input point (by position) to a group index in [0, K).
// It is produced by the partitioner and treated as read-only afterwards.
type Assignment struct {
	Labels     []int
	Centroids  []Point
	K          int
	Iterations int
	Converged  bool
}

// Group returns the points labelled g, in their original input order.
func (a *Assignment) Group(points []Point, g int) []Point {
	out := make([]Point, 0, len(points)/max(a.K, 1)+1)
	for i, label := range a.Labels {
		if label == g && i < len(points) {
			out = append(out, points[i])
		}
	}
	return out
}

// Sizes returns the number of points per group index.
func (a *Assignment) Sizes() []int {
	sizes := make([]int, a.K)
	for _, label := range a.Labels {
		if label >= 0 && label < a.K {
			sizes[label]++
		}
	}
	return sizes
}

// Err reports ErrConvergenceLimitReached when the iteration cap was hit.
func (a *Assignment) Err() error {
	if a.Converged {
		return nil
	}
	return ErrConvergenceLimitReached
}
