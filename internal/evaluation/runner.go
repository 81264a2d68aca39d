package evaluation

import (
	"context"
	"time"

	"github.com/zatekoja/holistic-provider-directory/internal/application/services"
)

const cutoff = 10

// Matcher is the symptom matching entry point under evaluation.
type Matcher interface {
	MatchBySymptoms(ctx context.Context, statements []string) (*services.MatchResult, error)
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	matcher Matcher
}

func NewRunner(m Matcher) *Runner {
	return &Runner{matcher: m}
}

// Run scores every case. A failing match call is recorded against the case
// and scores zero; it does not abort the run.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*Summary, error) {
	summary := &Summary{
		TotalCases:   len(cases),
		ByDifficulty: make(map[Difficulty]*DifficultySummary),
		Results:      make([]CaseResult, 0, len(cases)),
	}

	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		match, err := r.matcher.MatchBySymptoms(ctx, gc.Statements)
		result := CaseResult{
			CaseID:     gc.ID,
			Difficulty: gc.Difficulty,
			Latency:    time.Since(start),
		}

		if err != nil {
			result.Err = err.Error()
			summary.FailedCases++
		} else {
			ranked := rankedSpecialties(match)
			result.InferredSpecialties = match.Specialties
			result.InferredRecall = RecallAtK(gc.ExpectedSpecialties, match.Specialties, -1)
			result.RecallAt10 = RecallAtK(gc.ExpectedSpecialties, ranked, cutoff)
			result.MRRAt10 = MRRAtK(gc.ExpectedSpecialties, ranked, cutoff)
			result.ProviderCount = len(match.Providers)
			if len(match.Specialties) == 0 {
				summary.Unrecognised++
			}
		}

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

// rankedSpecialties lists the primary specialty of each returned provider in
// rank order.
func rankedSpecialties(match *services.MatchResult) []string {
	out := make([]string, 0, len(match.Providers))
	for _, p := range match.Providers {
		if p != nil && len(p.Specialty) > 0 {
			out = append(out, p.Specialty[0])
		}
	}
	return out
}

func (r *Runner) updateSummary(s *Summary, res CaseResult) {
	s.Results = append(s.Results, res)
	s.AvgInferredRecall += res.InferredRecall
	s.AvgRecallAt10 += res.RecallAt10
	s.AvgMRRAt10 += res.MRRAt10
	s.AvgLatency += res.Latency

	ds, ok := s.ByDifficulty[res.Difficulty]
	if !ok {
		ds = &DifficultySummary{}
		s.ByDifficulty[res.Difficulty] = ds
	}
	ds.Count++
	ds.AvgRecallAt10 += res.RecallAt10
	ds.AvgMRRAt10 += res.MRRAt10
}

func (r *Runner) finalizeSummary(s *Summary) {
	if s.TotalCases > 0 {
		n := float64(s.TotalCases)
		s.AvgInferredRecall /= n
		s.AvgRecallAt10 /= n
		s.AvgMRRAt10 /= n
		s.AvgLatency /= time.Duration(s.TotalCases)
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.AvgRecallAt10 /= n
			ds.AvgMRRAt10 /= n
		}
	}
}
