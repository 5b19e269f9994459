package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iafilius/PopulationPyramid/src/config"
	"github.com/iafilius/PopulationPyramid/src/loader"
	"github.com/iafilius/PopulationPyramid/src/pyramid"
	"github.com/iafilius/PopulationPyramid/src/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	var asJSON bool
	var timeout time.Duration
	cfg.RegisterFlags(flag.CommandLine)
	flag.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Load timeout")
	flag.Parse()
	cfg.Apply()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	m, err := loader.Load(ctx, source.Resolve(cfg.Source, ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := printModel(os.Stdout, m, cfg.Missing, asJSON); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printModel(w io.Writer, m pyramid.ChartModel, policy pyramid.MissingPolicy, asJSON bool) error {
	s := pyramid.Summarize(m)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Fprintf(w, "%-12s %10s %10s\n", "Age", pyramid.MaleName, pyramid.FemaleName)
	for i, label := range m.Labels {
		fmt.Fprintf(w, "%-12s %10s %10s\n", label, formatValue(m.Male.Values[i], policy), formatValue(m.Female.Values[i], policy))
	}
	fmt.Fprintf(w, "Age groups: %d\n", s.Groups)
	fmt.Fprintf(w, "Male total: %.2f\n", s.MaleTotal)
	fmt.Fprintf(w, "Female total: %.2f\n", s.FemaleTotal)
	if s.Missing > 0 {
		fmt.Fprintf(w, "Missing values: %d\n", s.Missing)
	}
	return nil
}

func formatValue(v float64, policy pyramid.MissingPolicy) string {
	r, ok := policy.Resolve(v)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", r)
}
