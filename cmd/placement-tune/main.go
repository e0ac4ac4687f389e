package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"ExamSeatPlanner/internal/placement"
)

type runResult struct {
	success    float64
	compliance float64
	unplaced   int
	delta      float64
	elapsed    time.Duration
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func printStats(label string, results []runResult) {
	runs := len(results)
	if runs == 0 {
		return
	}
	avg := func(f func(runResult) float64) float64 {
		return lo.SumBy(results, f) / float64(runs)
	}
	perfect := lo.CountBy(results, func(r runResult) bool { return r.unplaced == 0 })
	totalTime := lo.SumBy(results, func(r runResult) time.Duration { return r.elapsed })

	fmt.Printf("--- %s ---\n", label)
	fmt.Printf("  avg time: %v\n", totalTime/time.Duration(runs))
	fmt.Printf("  avg success rate: %.1f%%\n", avg(func(r runResult) float64 { return r.success }))
	fmt.Printf("  avg compliance: %.1f%%\n", avg(func(r runResult) float64 { return r.compliance }))
	fmt.Printf("  avg optimizer delta: %.2f\n", avg(func(r runResult) float64 { return r.delta }))
	fmt.Printf("  runs with nobody unplaced: %d/%d\n", perfect, runs)
	fmt.Println()
}

func main() {
	dir := flag.String("dir", "tmp", "directory with students.json and rooms.json")
	runs := flag.Int("runs", 20, "number of seeds per optimizer")
	optimizers := flag.String("optimizers", "none,greedy,genetic", "comma-separated optimizers to compare")
	population := flag.Int("population", 50, "genetic population size")
	generations := flag.Int("generations", 100, "genetic generations")
	passes := flag.Int("passes", 1, "greedy sweeps")
	learn := flag.Float64("learn", 0, "weight learning rate applied between runs (0 keeps static priority)")
	flag.Parse()

	var students []placement.Student
	if err := readJSON(filepath.Join(*dir, "students.json"), &students); err != nil {
		fmt.Fprintf(os.Stderr, "reading students: %v\n", err)
		os.Exit(1)
	}
	var rooms []placement.Room
	if err := readJSON(filepath.Join(*dir, "rooms.json"), &rooms); err != nil {
		fmt.Fprintf(os.Stderr, "reading rooms: %v\n", err)
		os.Exit(1)
	}

	active := lo.Filter(rooms, func(r placement.Room, _ int) bool { return r.Active })
	capacity := lo.SumBy(active, func(r placement.Room) int { return r.EffectiveCapacity() })
	fmt.Printf("Students: %d, Active rooms: %d, Seats: %d\n", len(students), len(active), capacity)
	fmt.Printf("Runs per optimizer: %d\n\n", *runs)

	planner := placement.NewPlanner(nil)
	ctx := context.Background()

	for _, name := range strings.Split(*optimizers, ",") {
		name = strings.TrimSpace(name)
		var weights *placement.WeightProfile
		if *learn > 0 {
			w := placement.DefaultWeightProfile()
			weights = &w
		}

		var results []runResult
		for run := range *runs {
			seed := int64(run*31337 + 1)
			opt, err := placement.NewOptimizer(name,
				placement.GreedyOptions{MaxPasses: *passes},
				placement.GeneticOptions{Population: *population, Generations: *generations, Seed: seed},
			)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				os.Exit(1)
			}

			start := time.Now()
			out, err := planner.Run(ctx, students, rooms, placement.RunOptions{Seed: seed, Weights: weights, Optimizer: opt})
			if err != nil {
				fmt.Fprintf(os.Stderr, "run %d: %v\n", run, err)
				os.Exit(1)
			}
			results = append(results, runResult{
				success:    out.Report.SuccessRate,
				compliance: out.Report.Compliance.Overall,
				unplaced:   out.Report.TotalUnplaced,
				delta:      out.Report.OptimizationScore,
				elapsed:    time.Since(start),
			})
			if weights != nil {
				weights.Learn(out.Report, *learn)
			}
		}

		label := name
		if weights != nil {
			label = fmt.Sprintf("%s learn=%.2f final=%+v", name, *learn, *weights)
		}
		printStats(label, results)
	}
}
