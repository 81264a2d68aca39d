package evaluation

import "strings"

// RecallAtK computes Recall@K: the fraction of relevant labels found in the
// top-K retrieved labels. Labels compare case-insensitively and duplicates in
// retrieved count once. Returns 0.0 if relevant is empty.
func RecallAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 {
		return 0.0
	}

	relevantSet := labelSet(relevant)
	found := make(map[string]struct{}, len(relevantSet))
	for _, r := range topK(retrieved, k) {
		key := strings.ToLower(r)
		if _, ok := relevantSet[key]; ok {
			found[key] = struct{}{}
		}
	}

	return float64(len(found)) / float64(len(relevantSet))
}

// MRRAtK computes the reciprocal rank of the first relevant label in the
// top-K retrieved labels, or 0.0 when none appears.
func MRRAtK(relevant, retrieved []string, k int) float64 {
	if len(relevant) == 0 || len(retrieved) == 0 {
		return 0.0
	}

	relevantSet := labelSet(relevant)
	for i, r := range topK(retrieved, k) {
		if _, ok := relevantSet[strings.ToLower(r)]; ok {
			return 1.0 / float64(i+1)
		}
	}

	return 0.0
}

func topK(retrieved []string, k int) []string {
	if k >= 0 && k < len(retrieved) {
		return retrieved[:k]
	}
	return retrieved
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[strings.ToLower(l)] = struct{}{}
	}
	return set
}
