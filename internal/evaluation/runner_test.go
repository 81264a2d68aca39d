package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/zatekoja/holistic-provider-directory/internal/adapters/memory"
	"github.com/zatekoja/holistic-provider-directory/internal/adapters/records"
	"github.com/zatekoja/holistic-provider-directory/internal/application/services"
	"github.com/zatekoja/holistic-provider-directory/internal/domain/entities"
)

type stubMatcher struct {
	results map[string]*services.MatchResult
}

func (s *stubMatcher) MatchBySymptoms(_ context.Context, statements []string) (*services.MatchResult, error) {
	r, ok := s.results[statements[0]]
	if !ok {
		return nil, errors.New("store unavailable")
	}
	return r, nil
}

func provider(id int64, specialty string) *entities.Provider {
	return &entities.Provider{ID: id, Specialty: []string{specialty}}
}

func TestRunner_Run(t *testing.T) {
	matcher := &stubMatcher{results: map[string]*services.MatchResult{
		"back pain": {
			Specialties: []string{"Chiropractic Care", "Massage Therapy"},
			Providers:   []*entities.Provider{provider(1, "Chiropractic Care"), provider(2, "Massage Therapy")},
		},
		"gibberish": {Specialties: []string{}, Providers: []*entities.Provider{provider(3, "Homeopathy")}},
	}}
	cases := []GoldenCase{
		{ID: "hit", Statements: []string{"back pain"}, ExpectedSpecialties: []string{"Massage Therapy", "Chiropractic Care"}, Difficulty: DifficultyEasy},
		{ID: "miss", Statements: []string{"gibberish"}, ExpectedSpecialties: []string{"Acupuncture"}, Difficulty: DifficultyHard},
		{ID: "error", Statements: []string{"boom"}, ExpectedSpecialties: []string{"Acupuncture"}, Difficulty: DifficultyHard},
	}

	summary, err := NewRunner(matcher).Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.TotalCases != 3 || len(summary.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(summary.Results))
	}
	if summary.FailedCases != 1 {
		t.Errorf("expected 1 failed case, got %d", summary.FailedCases)
	}
	if summary.Unrecognised != 1 {
		t.Errorf("expected 1 unrecognised case, got %d", summary.Unrecognised)
	}

	hit := summary.Results[0]
	if !almostEqual(hit.InferredRecall, 1.0) || !almostEqual(hit.RecallAt10, 1.0) || !almostEqual(hit.MRRAt10, 1.0) {
		t.Errorf("unexpected scores for hit: %+v", hit)
	}
	if summary.Results[2].Err == "" {
		t.Error("expected error recorded on failing case")
	}

	if !almostEqual(summary.AvgRecallAt10, 1.0/3.0) {
		t.Errorf("expected avg recall 1/3, got %f", summary.AvgRecallAt10)
	}
	hard := summary.ByDifficulty[DifficultyHard]
	if hard == nil || hard.Count != 2 || !almostEqual(hard.AvgRecallAt10, 0.0) {
		t.Errorf("unexpected hard summary: %+v", hard)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(&stubMatcher{}).Run(ctx, []GoldenCase{{ID: "x", Statements: []string{"x"}}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestThresholds_Check(t *testing.T) {
	passing := &Summary{AvgInferredRecall: 0.9, AvgRecallAt10: 0.7, AvgMRRAt10: 0.6}
	if v := DefaultThresholds.Check(passing); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}

	failing := &Summary{AvgInferredRecall: 0.1, AvgRecallAt10: 0.7, AvgMRRAt10: 0.6, FailedCases: 2}
	if v := DefaultThresholds.Check(failing); len(v) != 2 {
		t.Errorf("expected 2 violations, got %v", v)
	}
}

func TestRunner_BuiltInCasesAgainstSeedCatalogue(t *testing.T) {
	seed, err := memory.LoadSeed("")
	if err != nil {
		t.Fatalf("failed to load seed: %v", err)
	}
	svc := services.NewProviderService(records.NewProviderAdapter(memory.NewRecordStore(seed)), nil, nil, nil)

	cases, err := LoadGoldenCases("")
	if err != nil {
		t.Fatalf("failed to load cases: %v", err)
	}

	summary, err := NewRunner(svc).Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.FailedCases != 0 || summary.Unrecognised != 0 {
		t.Errorf("expected every case to match, got %d failed and %d unrecognised", summary.FailedCases, summary.Unrecognised)
	}
	if !almostEqual(summary.AvgInferredRecall, 1.0) {
		t.Errorf("expected full inferred recall, got %f", summary.AvgInferredRecall)
	}
}
