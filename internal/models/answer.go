// internal/models/answer.go
package models

import "sort"

// Fragment is a retrievable unit of document text. Its ID doubles as a
// stable citation key.
type Fragment struct {
	ID     string  `json:"id"`
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"relevance_score"`
}

// FinalAnswer is the terminal output of one run.
type FinalAnswer struct {
	Value       interface{} `json:"value"`
	Explanation string      `json:"explanation"`
	Citations   []string    `json:"citations"`
	Confidence  float64     `json:"confidence"`
}

// CitationSet accumulates citation keys across a run. It only grows.
type CitationSet map[string]struct{}

// Add inserts keys, ignoring empties and duplicates.
func (c CitationSet) Add(keys ...string) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		c[k] = struct{}{}
	}
}

// Union returns a new set containing both operands' keys.
func (c CitationSet) Union(other CitationSet) CitationSet {
	out := make(CitationSet, len(c)+len(other))
	for k := range c {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the keys in lexical order for stable output.
func (c CitationSet) Sorted() []string {
	if len(c) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
