package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapWordsRespectsWidth(t *testing.T) {
	text := "A fluid ounce is about 30 milliliters and a pint is about 470 milliliters"
	lines := wrapWords(text, 20)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped lines, got %q", lines)
	}
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > 20 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
	if got := strings.Join(lines, " "); got != text {
		t.Fatalf("wrapping changed the text: %q", got)
	}
}

func TestWrapWordsSplitsLongWords(t *testing.T) {
	lines := wrapWords("abcdefghij xy", 4)
	want := []string{"abcd", "efgh", "ij", "xy"}
	if len(lines) != len(want) {
		t.Fatalf("expected %q, got %q", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("expected %q, got %q", want, lines)
		}
	}
}

func TestWrapWordsEmpty(t *testing.T) {
	if lines := wrapWords("   ", 10); lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}
	if lines := wrapWords("one two", 0); len(lines) != 1 || lines[0] != "one two" {
		t.Fatalf("expected single line without width, got %q", lines)
	}
}

func TestFormatGridAlignsNumericColumns(t *testing.T) {
	lines := formatGrid(
		[]string{"Given", "Tries"},
		[][]string{{"3 in", "1"}, {"10 mi", "12"}},
		map[int]bool{1: true},
	)
	want := []string{
		"Given  Tries",
		"3 in       1",
		"10 mi     12",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
