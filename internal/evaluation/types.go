package evaluation

import "time"

// Difficulty grades how indirect a case's wording is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // names a keyword outright, e.g. "back pain"
	DifficultyMedium Difficulty = "medium" // keyword buried in a sentence
	DifficultyHard   Difficulty = "hard"   // several statements, mixed keywords
)

// IsValid checks if the difficulty is one of the defined constants.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GoldenCase is a labeled symptom description with the specialties a good
// match should surface.
type GoldenCase struct {
	ID                  string     `json:"id"`
	Statements          []string   `json:"statements"`
	ExpectedSpecialties []string   `json:"expected_specialties"`
	Difficulty          Difficulty `json:"difficulty"`
}

// CaseResult holds the evaluation outcome for a single case.
type CaseResult struct {
	CaseID              string        `json:"case_id"`
	Difficulty          Difficulty    `json:"difficulty"`
	InferredRecall      float64       `json:"inferred_recall"`
	RecallAt10          float64       `json:"recall_at_10"`
	MRRAt10             float64       `json:"mrr_at_10"`
	ProviderCount       int           `json:"provider_count"`
	InferredSpecialties []string      `json:"inferred_specialties"`
	Latency             time.Duration `json:"latency"`
	Err                 string        `json:"error,omitempty"`
}

// Summary holds aggregate metrics across all golden cases.
type Summary struct {
	TotalCases        int                               `json:"total_cases"`
	FailedCases       int                               `json:"failed_cases"`
	Unrecognised      int                               `json:"unrecognised"`
	AvgInferredRecall float64                           `json:"avg_inferred_recall"`
	AvgRecallAt10     float64                           `json:"avg_recall_at_10"`
	AvgMRRAt10        float64                           `json:"avg_mrr_at_10"`
	AvgLatency        time.Duration                     `json:"avg_latency"`
	ByDifficulty      map[Difficulty]*DifficultySummary `json:"by_difficulty"`
	Results           []CaseResult                      `json:"results"`
}

// DifficultySummary holds metrics grouped by difficulty.
type DifficultySummary struct {
	Count         int     `json:"count"`
	AvgRecallAt10 float64 `json:"avg_recall_at_10"`
	AvgMRRAt10    float64 `json:"avg_mrr_at_10"`
}
