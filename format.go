package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// BlueprintResult is the JSON form of one blueprint search.
type BlueprintResult struct {
	ID      int   `json:"id"`
	Minutes int   `json:"minutes"`
	Geodes  int   `json:"geodes"`
	Quality int   `json:"quality"`
	Nodes   int64 `json:"nodes"`
	Pruned  int64 `json:"pruned"`
	TimeMs  int64 `json:"timeMs"`
}

// BenchOutput is the JSON-serializable result of a whole run.
type BenchOutput struct {
	RunID   string            `json:"runId"`
	Date    string            `json:"date"`
	Mode    string            `json:"mode"`
	Workers int               `json:"workers"`
	Answer  int               `json:"answer"`
	Results []BlueprintResult `json:"results"`
	TotalMs int64             `json:"totalMs"`
}

func toBlueprintResult(r Result) BlueprintResult {
	return BlueprintResult{
		ID:      r.BlueprintID,
		Minutes: r.Minutes,
		Geodes:  r.Geodes,
		Quality: QualityLevel(r),
		Nodes:   r.Stats.Nodes,
		Pruned:  r.Stats.PrunedTotal(),
		TimeMs:  r.Elapsed.Milliseconds(),
	}
}

func newBenchOutput(mode string, workers, answer int, results []Result) BenchOutput {
	out := BenchOutput{
		RunID:   uuid.NewString(),
		Date:    time.Now().UTC().Format(time.RFC3339),
		Mode:    mode,
		Workers: workers,
		Answer:  answer,
		Results: make([]BlueprintResult, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, toBlueprintResult(r))
		out.TotalMs += r.Elapsed.Milliseconds()
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatResult renders one blueprint's recipes, answer and search effort.
func FormatResult(bp *Blueprint, r Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Blueprint %d (%d minutes): %d geodes, quality %d\n",
		bp.ID, r.Minutes, r.Geodes, QualityLevel(r))
	for _, m := range [4]Material{Ore, Clay, Obsidian, Geode} {
		if recipe, ok := bp.Recipe(m); ok {
			fmt.Fprintf(&sb, "  %s\n", recipe)
		}
	}
	fmt.Fprintf(&sb, "  max useful rate: ore %d, clay %d, obsidian %d\n",
		bp.MaxCosts.Ore, bp.MaxCosts.Clay, bp.MaxCosts.Obsidian)

	s := r.Stats
	fmt.Fprintf(&sb, "  search: %s nodes, %s cache hits, %s evicted, %.1fs\n",
		humanize.Comma(s.Nodes), humanize.Comma(s.CacheHits), humanize.Comma(s.Evictions), r.Elapsed.Seconds())
	var pruned []string
	for reason := PrunedHorizon; reason < numPruneReasons; reason++ {
		pruned = append(pruned, fmt.Sprintf("%s %s", reason, humanize.Comma(s.Pruned[reason])))
	}
	fmt.Fprintf(&sb, "  pruned: %s", strings.Join(pruned, ", "))
	return sb.String()
}

func printTable(w io.Writer, label string, answer int, results []Result) {
	fmt.Fprintf(w, "%-10s %8s %8s %8s %14s %8s\n", "Blueprint", "Minutes", "Geodes", "Quality", "Nodes", "Time")
	fmt.Fprintf(w, "%-10s %8s %8s %8s %14s %8s\n", "----------", "--------", "--------", "--------", "--------------", "--------")
	var totalMs int64
	for _, r := range results {
		totalMs += r.Elapsed.Milliseconds()
		fmt.Fprintf(w, "%-10d %8d %8d %8d %14s %7.1fs\n",
			r.BlueprintID, r.Minutes, r.Geodes, QualityLevel(r), humanize.Comma(r.Stats.Nodes), r.Elapsed.Seconds())
	}
	fmt.Fprintf(w, "%-10s %8s %8s %8s %14s %8s\n", "----------", "--------", "--------", "--------", "--------------", "--------")
	fmt.Fprintf(w, "%-10s %35d %7.1fs\n", strings.ToUpper(label), answer, float64(totalMs)/1000)
}
