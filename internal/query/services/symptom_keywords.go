package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SymptomKeyword maps a phrase found in a patient's statement to the
// specialties that treat it.
type SymptomKeyword struct {
	Keyword     string   `json:"keyword"`
	Specialties []string `json:"specialties"`
}

// DefaultSymptomKeywords is the built-in keyword table used by the AI search flow.
var DefaultSymptomKeywords = []SymptomKeyword{
	{Keyword: "chronic pain", Specialties: []string{"Functional Medicine", "Chiropractic Care", "Acupuncture"}},
	{Keyword: "back pain", Specialties: []string{"Chiropractic Care", "Massage Therapy"}},
	{Keyword: "headaches", Specialties: []string{"Functional Medicine", "Acupuncture", "Chiropractic Care"}},
	{Keyword: "fatigue", Specialties: []string{"Functional Medicine", "Naturopathic Medicine"}},
	{Keyword: "digestive issues", Specialties: []string{"Functional Medicine", "Naturopathic Medicine", "Traditional Chinese Medicine"}},
	{Keyword: "anxiety", Specialties: []string{"Health Coaching", "Naturopathic Medicine", "Acupuncture"}},
	{Keyword: "hormone imbalance", Specialties: []string{"Naturopathic Medicine", "Functional Medicine"}},
	{Keyword: "autoimmune", Specialties: []string{"Functional Medicine", "Naturopathic Medicine"}},
	{Keyword: "fibromyalgia", Specialties: []string{"Functional Medicine", "Massage Therapy", "Acupuncture"}},
	{Keyword: "arthritis", Specialties: []string{"Acupuncture", "Chiropractic Care", "Functional Medicine"}},
}

// LoadSymptomKeywords reads a keyword table from a JSON object of the form
// {"keyword": ["Specialty", ...]}. Keywords are lower-cased and returned in
// sorted order so matching is deterministic.
func LoadSymptomKeywords(path string) ([]SymptomKeyword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var mappings map[string][]string
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parse symptom keywords %s: %w", path, err)
	}

	table := make([]SymptomKeyword, 0, len(mappings))
	for keyword, specialties := range mappings {
		table = append(table, SymptomKeyword{Keyword: keyword, Specialties: specialties})
	}
	sort.Slice(table, func(i, j int) bool {
		return strings.ToLower(table[i].Keyword) < strings.ToLower(table[j].Keyword)
	})

	return normalizeKeywords(table), nil
}

// normalizeKeywords lower-cases keywords and drops entries that could never
// match or would map to nothing.
func normalizeKeywords(table []SymptomKeyword) []SymptomKeyword {
	out := make([]SymptomKeyword, 0, len(table))
	for _, entry := range table {
		keyword := strings.ToLower(strings.TrimSpace(entry.Keyword))
		if keyword == "" {
			continue
		}
		var specialties []string
		for _, specialty := range entry.Specialties {
			if specialty = strings.TrimSpace(specialty); specialty != "" {
				specialties = append(specialties, specialty)
			}
		}
		if len(specialties) == 0 {
			continue
		}
		out = append(out, SymptomKeyword{Keyword: keyword, Specialties: specialties})
	}
	return out
}
