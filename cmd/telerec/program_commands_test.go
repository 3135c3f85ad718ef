package main

import (
	"testing"
	"time"
)

func TestParseLocalTimeLayouts(t *testing.T) {
	cases := []string{
		"2026-08-30 21:00",
		"2026-08-30 21:00:00",
		"2026-08-30T21:00",
		"2026-08-30T21:00:00",
	}
	for _, value := range cases {
		parsed, err := parseLocalTime(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		want := time.Date(2026, 8, 30, 21, 0, 0, 0, time.Local)
		if !parsed.Equal(want) {
			t.Fatalf("parse %q = %v, want %v", value, parsed, want)
		}
	}

	if _, err := parseLocalTime("30/08/2026"); err == nil {
		t.Fatal("unsupported layout accepted")
	}
	if _, err := parseLocalTime(""); err == nil {
		t.Fatal("empty value accepted")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"A", "B"},
		[][]string{{"only-a"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	if out == "" {
		t.Fatal("empty table output")
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"daemon", "program", "channels", "history", "record", "playlist", "probe", "samples", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
}
