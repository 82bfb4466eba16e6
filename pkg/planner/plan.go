package planner

import "sort"

// Plan is the planner's output: the selected files within budget, the
// files dropped for lack of remaining budget, and a summary report
// (spec.md §4.14 "output lists selected, dropped, and a budget report").
type Plan struct {
	Selected []Candidate
	Dropped  []Candidate
	Report   BudgetReport
}

// BudgetReport summarizes how the token budget was spent.
type BudgetReport struct {
	Budget        int
	Spent         int
	Remaining     int
	CandidateCount int
	SelectedCount  int
}

// Select runs a deterministic greedy knapsack: candidates are ordered by
// score/cost ratio descending (ties broken by path for determinism), then
// accepted in that order while they still fit the remaining budget. A
// candidate that doesn't fit is recorded as dropped and the scan
// continues — the algorithm does not stop at the first miss, so smaller
// low-value-but-cheap files still get a chance later in the order
// (spec.md §4.14 "deterministic greedy knapsack by score/cost ratio").
func Select(candidates []Candidate, budget int) Plan {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri := ratio(ordered[i])
		rj := ratio(ordered[j])
		if ri != rj {
			return ri > rj
		}
		return ordered[i].RelPath < ordered[j].RelPath
	})

	remaining := budget
	var selected, dropped []Candidate
	for _, c := range ordered {
		if c.TokenCost <= remaining {
			selected = append(selected, c)
			remaining -= c.TokenCost
		} else {
			dropped = append(dropped, c)
		}
	}

	return Plan{
		Selected: selected,
		Dropped:  dropped,
		Report: BudgetReport{
			Budget:         budget,
			Spent:          budget - remaining,
			Remaining:      remaining,
			CandidateCount: len(candidates),
			SelectedCount:  len(selected),
		},
	}
}

func ratio(c Candidate) float64 {
	if c.TokenCost <= 0 {
		return c.Score
	}
	return c.Score / float64(c.TokenCost)
}
