package closure

import "mapvet/internal/common"

// Relationship is a relationship set with the sets at its two ends.
type Relationship struct {
	Set        string
	Ends       [2]string
	ForeignKey bool
}

// Result is the outcome of a closure computation.
type Result struct {
	// Required holds the seed and every set reachable from it, sorted.
	Required []string
	// Violations holds the required sets that aren't in the seed, sorted.
	Violations []string
}

// Compute returns the closure of seed over relationships.
//
// A required relationship set requires both of its ends, and a relationship
// set with a required end is required itself. Foreign-key backed
// relationship sets take part in neither rule. Sets without relationships
// are only required when seeded.
func Compute(relationships []Relationship, seed []string) Result {
	// Propagating relationship sets by name and by the sets at their ends.
	bySet := make(map[string]Relationship, len(relationships))
	byEnd := make(map[string][]string)

	for _, r := range relationships {
		if r.ForeignKey {
			continue
		}

		bySet[r.Set] = r
		byEnd[r.Ends[0]] = append(byEnd[r.Ends[0]], r.Set)

		if r.Ends[1] != r.Ends[0] {
			byEnd[r.Ends[1]] = append(byEnd[r.Ends[1]], r.Set)
		}
	}

	required := common.NewSet[string]()
	seeded := common.NewSet[string]()

	var pending []string

	mark := func(name string) {
		if required.Add(name) {
			pending = append(pending, name)
		}
	}

	for _, name := range seed {
		seeded.Add(name)
		mark(name)
	}

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]

		if r, ok := bySet[name]; ok {
			mark(r.Ends[0])
			mark(r.Ends[1])
		}

		for _, rel := range byEnd[name] {
			mark(rel)
		}
	}

	res := Result{Required: required.Sorted()}

	for _, name := range res.Required {
		if !seeded.Contains(name) {
			res.Violations = append(res.Violations, name)
		}
	}

	return res
}
