package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectPicksHighestRatioFirst(t *testing.T) {
	candidates := []Candidate{
		{RelPath: "cheap.go", Score: 4, TokenCost: 10},
		{RelPath: "pricey.go", Score: 5, TokenCost: 100},
		{RelPath: "tiny.go", Score: 1, TokenCost: 5},
	}
	plan := Select(candidates, 20)
	require.Len(t, plan.Selected, 2)
	assert.Equal(t, "cheap.go", plan.Selected[0].RelPath)
	assert.Equal(t, "tiny.go", plan.Selected[1].RelPath)
	require.Len(t, plan.Dropped, 1)
	assert.Equal(t, "pricey.go", plan.Dropped[0].RelPath)
}

func TestSelectContinuesPastAnUnaffordableCandidate(t *testing.T) {
	candidates := []Candidate{
		{RelPath: "big.go", Score: 100, TokenCost: 90},
		{RelPath: "small.go", Score: 1, TokenCost: 5},
	}
	plan := Select(candidates, 10)
	require.Len(t, plan.Selected, 1)
	assert.Equal(t, "small.go", plan.Selected[0].RelPath)
	assert.Equal(t, "big.go", plan.Dropped[0].RelPath)
}

func TestSelectBudgetReportAccounting(t *testing.T) {
	candidates := []Candidate{
		{RelPath: "a.go", Score: 2, TokenCost: 10},
		{RelPath: "b.go", Score: 1, TokenCost: 10},
	}
	plan := Select(candidates, 15)
	assert.Equal(t, 15, plan.Report.Budget)
	assert.Equal(t, 10, plan.Report.Spent)
	assert.Equal(t, 5, plan.Report.Remaining)
	assert.Equal(t, 2, plan.Report.CandidateCount)
	assert.Equal(t, 1, plan.Report.SelectedCount)
}

func TestSelectIsDeterministicOnTiedRatios(t *testing.T) {
	candidates := []Candidate{
		{RelPath: "z.go", Score: 2, TokenCost: 10},
		{RelPath: "a.go", Score: 2, TokenCost: 10},
	}
	plan := Select(candidates, 10)
	require.Len(t, plan.Selected, 1)
	assert.Equal(t, "a.go", plan.Selected[0].RelPath)
}
