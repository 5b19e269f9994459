package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/iafilius/PopulationPyramid/src/pyramid"
)

func TestPrintModelTable(t *testing.T) {
	m := pyramid.Transform([]pyramid.RawRow{
		{Age: "0-9", Male: "10", Female: "9"},
		{Age: "10-19", Male: "x", Female: "8.5"},
	})
	var buf bytes.Buffer
	if err := printModel(&buf, m, pyramid.MissingOmit, false); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"0-9", "-10.00", "9.00", "10-19", "8.50", "Age groups: 2", "Missing values: 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	if !strings.HasSuffix(strings.TrimSpace(lines[2]), "8.50") || !strings.Contains(lines[2], " - ") {
		t.Fatalf("missing male value should print as '-': %q", lines[2])
	}
}

func TestPrintModelJSON(t *testing.T) {
	m := pyramid.Transform([]pyramid.RawRow{{Age: "0-9", Male: "3", Female: "4"}})
	var buf bytes.Buffer
	if err := printModel(&buf, m, pyramid.MissingOmit, true); err != nil {
		t.Fatalf("print: %v", err)
	}
	var s pyramid.Summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Groups != 1 || s.MaleTotal != 3 || s.FemaleTotal != 4 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestFormatValuePolicy(t *testing.T) {
	if got := formatValue(math.NaN(), pyramid.MissingZero); got != "0.00" {
		t.Fatalf("zero policy: %q", got)
	}
	if got := formatValue(math.NaN(), pyramid.MissingOmit); got != "-" {
		t.Fatalf("omit policy: %q", got)
	}
	if got := formatValue(-1.25, pyramid.MissingOmit); got != "-1.25" {
		t.Fatalf("plain value: %q", got)
	}
}
