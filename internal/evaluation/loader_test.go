package evaluation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadGoldenCases_Embedded(t *testing.T) {
	cases, err := LoadGoldenCases("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("expected built-in cases")
	}
	if err := ValidateGoldenCases(cases); err != nil {
		t.Errorf("built-in cases should validate: %v", err)
	}
}

func TestLoadGoldenCases_ValidFile(t *testing.T) {
	path := writeTempFile(t, `[
		{"id": "c1", "statements": ["back pain"], "expected_specialties": ["Chiropractic Care"], "difficulty": "easy"}
	]`)

	cases, err := LoadGoldenCases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 1 || cases[0].ID != "c1" {
		t.Fatalf("unexpected cases: %+v", cases)
	}
	if cases[0].Difficulty != DifficultyEasy {
		t.Errorf("expected easy, got %s", cases[0].Difficulty)
	}
}

func TestLoadGoldenCases_MissingFile(t *testing.T) {
	if _, err := LoadGoldenCases("/nonexistent/path.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadGoldenCases_InvalidJSON(t *testing.T) {
	if _, err := LoadGoldenCases(writeTempFile(t, `not valid json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestValidateGoldenCases(t *testing.T) {
	valid := GoldenCase{ID: "a", Statements: []string{"fatigue"}, ExpectedSpecialties: []string{"Functional Medicine"}, Difficulty: DifficultyEasy}

	tests := []struct {
		name    string
		cases   []GoldenCase
		wantErr string
	}{
		{"valid", []GoldenCase{valid}, ""},
		{"missing id", []GoldenCase{{Statements: valid.Statements, ExpectedSpecialties: valid.ExpectedSpecialties, Difficulty: DifficultyEasy}}, "missing id"},
		{"duplicate id", []GoldenCase{valid, valid}, "duplicate id"},
		{"blank statements", []GoldenCase{{ID: "b", Statements: []string{" "}, ExpectedSpecialties: valid.ExpectedSpecialties, Difficulty: DifficultyEasy}}, "no statements"},
		{"no expectations", []GoldenCase{{ID: "c", Statements: valid.Statements, Difficulty: DifficultyEasy}}, "no expected specialties"},
		{"bad difficulty", []GoldenCase{{ID: "d", Statements: valid.Statements, ExpectedSpecialties: valid.ExpectedSpecialties, Difficulty: "extreme"}}, "invalid difficulty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoldenCases(tt.cases)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
