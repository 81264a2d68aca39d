package evaluation

import "fmt"

// Thresholds are the minimum averages a run must reach to pass.
type Thresholds struct {
	MinInferredRecall float64
	MinRecallAt10     float64
	MinMRRAt10        float64
	// MaxFailedCases bounds cases whose match call returned an error.
	MaxFailedCases int
}

// DefaultThresholds is what cmd/evaluate enforces unless told otherwise.
var DefaultThresholds = Thresholds{
	MinInferredRecall: 0.8,
	MinRecallAt10:     0.6,
	MinMRRAt10:        0.5,
}

// Check lists every threshold the summary misses. An empty result means the
// run passed.
func (t Thresholds) Check(s *Summary) []string {
	var violations []string
	if s.AvgInferredRecall < t.MinInferredRecall {
		violations = append(violations, fmt.Sprintf("inferred recall %.3f below %.3f", s.AvgInferredRecall, t.MinInferredRecall))
	}
	if s.AvgRecallAt10 < t.MinRecallAt10 {
		violations = append(violations, fmt.Sprintf("recall@10 %.3f below %.3f", s.AvgRecallAt10, t.MinRecallAt10))
	}
	if s.AvgMRRAt10 < t.MinMRRAt10 {
		violations = append(violations, fmt.Sprintf("mrr@10 %.3f below %.3f", s.AvgMRRAt10, t.MinMRRAt10))
	}
	if s.FailedCases > t.MaxFailedCases {
		violations = append(violations, fmt.Sprintf("%d cases failed, at most %d allowed", s.FailedCases, t.MaxFailedCases))
	}
	return violations
}
