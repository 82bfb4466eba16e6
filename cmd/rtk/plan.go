package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/memory"
	"github.com/heAdz0r/rtk/pkg/planner"
)

// runPlan implements the budgeted context selector: it scores every
// indexed file against a task description and intent tag, then greedily
// fills a token budget (spec.md §4.14).
func runPlan(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	budget := fs.Int("budget", 8000, "Token budget for the selected file set")
	intent := fs.String("intent", string(planner.IntentGeneral), "general|bugfix|feature|refactor")
	maxCommits := fs.Int("max-commits", 500, "Commits scanned for the churn signal")
	fs.SetInterspersed(false)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a task description is required", "", "rtk plan <task description> --budget 8000"), globals.jsonOutput())
	}
	taskTerms := strings.Fields(strings.ToLower(strings.Join(fs.Args(), " ")))

	root, err := projectRoot()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve project root", err.Error(), "", err), globals.jsonOutput())
	}

	result, err := memory.Scan(memory.IndexOptions{Root: root, ReadFile: os.ReadFile})
	if err != nil {
		errors.FatalError(errors.NewInternalError("index scan failed", err.Error(), "", err), globals.jsonOutput())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	churn, err := planner.BuildChurnCache(ctx, planner.NewExecGitRunner(root), *maxCommits)
	if err != nil {
		churn = &planner.ChurnCache{Counts: map[string]int{}}
	}

	graph := planner.BuildCallGraph(fileTextsOf(root, result.Files))

	candidates := planner.ScoreCandidates(result.Files, taskTerms, churn, &result.Delta, graph, planner.IntentTag(*intent))
	plan := planner.Select(candidates, *budget)

	if globals.jsonOutput() {
		data, _ := json.Marshal(plan)
		fmt.Println(string(data))
		return
	}
	renderPlanText(plan)
}

func fileTextsOf(root string, files []memory.FileArtifact) []planner.FileText {
	texts := make([]planner.FileText, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(root, f.RelPath))
		if err != nil {
			continue
		}
		texts = append(texts, planner.FileText{RelPath: f.RelPath, Content: string(data)})
	}
	return texts
}

func renderPlanText(p planner.Plan) {
	fmt.Printf("budget %d  spent %d  remaining %d  (%d/%d candidates selected)\n",
		p.Report.Budget, p.Report.Spent, p.Report.Remaining, p.Report.SelectedCount, p.Report.CandidateCount)
	fmt.Println("selected:")
	for _, c := range p.Selected {
		fmt.Printf("  %-60s score=%.3f cost=%d\n", c.RelPath, c.Score, c.TokenCost)
	}
	if len(p.Dropped) > 0 {
		fmt.Println("dropped:")
		for _, c := range p.Dropped {
			fmt.Printf("  %-60s score=%.3f cost=%d\n", c.RelPath, c.Score, c.TokenCost)
		}
	}
}
