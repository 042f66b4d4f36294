package match

import (
	"cmp"
	"slices"
)

const (
	// DefaultMinScore is the lowest NameSimilarity a suggestion may have.
	DefaultMinScore = 0.6
	// DefaultLimit is the number of suggestions offered when none is configured.
	DefaultLimit = 3
)

// Candidate is a known name scored against an unresolved reference.
type Candidate struct {
	Name     string
	Score    float64
	Distance int
}

// CandidateList is ordered best first.
type CandidateList []Candidate

// Rank scores every name against target, best first. Ties are broken by
// raw edit distance, then alphabetically, so the order is deterministic.
func Rank(target string, names []string) CandidateList {
	out := make(CandidateList, 0, len(names))

	for _, name := range names {
		out = append(out, Candidate{
			Name:     name,
			Score:    NameSimilarity(target, name),
			Distance: Levenshtein(target, name),
		})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		return cmp.Or(
			cmp.Compare(b.Score, a.Score),
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.Name, b.Name),
		)
	})

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns the candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	if len(c) == 0 {
		return nil
	}

	out := make([]string, len(c))
	for i := range c {
		out[i] = c[i].Name
	}

	return out
}

// Suggest returns up to limit known names close to target. The target
// itself is never suggested. A limit of zero disables suggestions.
func Suggest(target string, names []string, limit int) []string {
	if limit <= 0 || target == "" {
		return nil
	}

	others := make([]string, 0, len(names))
	for _, name := range names {
		if name != target {
			others = append(others, name)
		}
	}

	return Rank(target, others).AboveThreshold(DefaultMinScore).Top(limit).Names()
}
