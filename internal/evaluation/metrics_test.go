package evaluation

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestRecallAtK_AllRelevantInTopK(t *testing.T) {
	got := RecallAtK([]string{"Acupuncture", "Homeopathy"}, []string{"Acupuncture", "Homeopathy", "Reiki"}, 10)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestRecallAtK_SomeRelevantMissing(t *testing.T) {
	relevant := []string{"a", "b", "c", "d"}
	got := RecallAtK(relevant, []string{"a", "b", "x", "y"}, 10)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestRecallAtK_DuplicatesCountOnce(t *testing.T) {
	relevant := []string{"Acupuncture", "Massage Therapy"}
	retrieved := []string{"Acupuncture", "Acupuncture", "Acupuncture"}
	got := RecallAtK(relevant, retrieved, 10)
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestRecallAtK_CaseInsensitive(t *testing.T) {
	got := RecallAtK([]string{"Chiropractic Care"}, []string{"chiropractic care"}, 10)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestRecallAtK_NoRelevantLabels(t *testing.T) {
	got := RecallAtK(nil, []string{"a"}, 10)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestRecallAtK_KSmallerThanRetrieved(t *testing.T) {
	relevant := []string{"a", "b", "c"}
	retrieved := []string{"a", "b", "x", "y", "c"}
	got := RecallAtK(relevant, retrieved, 3)
	if !almostEqual(got, 2.0/3.0) {
		t.Errorf("expected %f, got %f", 2.0/3.0, got)
	}
}

func TestRecallAtK_NegativeKMeansAll(t *testing.T) {
	got := RecallAtK([]string{"c"}, []string{"a", "b", "c"}, -1)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestMRRAtK_FirstPosition(t *testing.T) {
	got := MRRAtK([]string{"a"}, []string{"a", "b"}, 10)
	if !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}

func TestMRRAtK_ThirdPosition(t *testing.T) {
	got := MRRAtK([]string{"c", "d"}, []string{"a", "b", "c", "d"}, 10)
	if !almostEqual(got, 1.0/3.0) {
		t.Errorf("expected %f, got %f", 1.0/3.0, got)
	}
}

func TestMRRAtK_OutsideCutoff(t *testing.T) {
	got := MRRAtK([]string{"c"}, []string{"a", "b", "c"}, 2)
	if !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0, got %f", got)
	}
}

func TestMRRAtK_EmptyInputs(t *testing.T) {
	if got := MRRAtK(nil, []string{"a"}, 10); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for no relevant labels, got %f", got)
	}
	if got := MRRAtK([]string{"a"}, nil, 10); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for no retrieved labels, got %f", got)
	}
}
