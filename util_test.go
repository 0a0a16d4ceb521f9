package main

import (
	"strings"
	"testing"
)

func TestHasWhitespace(t *testing.T) {
	tests := []struct {
		input  string
		output bool
	}{
		{"abc", false},
		{"a b", true},
		{"a\tb", true},
		{"", false},
		{"abc\n", true},
	}

	for _, test := range tests {
		out := hasWhitespace(test.input)
		if out != test.output {
			t.Errorf("hasWhitespace(%q) = %v, wanted %v", test.input, out, test.output)
		}
	}
}

func TestAffirmative(t *testing.T) {
	tests := []struct {
		input  string
		output bool
	}{
		{"yes", true},
		{"true", true},
		{"1", true},
		{"no", false},
		{"", false},
		{"YES", false},
	}

	for _, test := range tests {
		out := affirmative(test.input)
		if out != test.output {
			t.Errorf("affirmative(%q) = %v, wanted %v", test.input, out, test.output)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		n      int
		output string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello..."},
		{"line1\nline2", 20, "line1 line2"},
		{"", 5, ""},
	}

	for _, test := range tests {
		out := truncate(test.input, test.n)
		if out != test.output {
			t.Errorf("truncate(%q, %d) = %q, wanted %q", test.input, test.n, out, test.output)
		}
	}
}

func TestPluralize(t *testing.T) {
	if pluralize(1, "cat", "cats") != "cat" {
		t.Error("pluralize(1, ...) should return singular")
	}
	if pluralize(0, "cat", "cats") != "cats" {
		t.Error("pluralize(0, ...) should return plural")
	}
	if pluralize(2, "cat", "cats") != "cats" {
		t.Error("pluralize(2, ...) should return plural")
	}
}

func TestWrapLine(t *testing.T) {
	out := wrapLine("the quick brown fox jumps", 10)
	for _, line := range out {
		if len(line) > 10 {
			t.Errorf("wrapLine produced a line longer than width: %q", line)
		}
	}
	if strings.Join(out, " ") != "the quick brown fox jumps" {
		t.Errorf("wrapLine lost words: %v", out)
	}
}

func TestWrapTextParagraphs(t *testing.T) {
	out := wrapText("first paragraph\n\nsecond paragraph", 40)
	joined := strings.Join(out, "\n")
	if !strings.Contains(joined, "first paragraph") || !strings.Contains(joined, "second paragraph") {
		t.Errorf("wrapText dropped a paragraph: %v", out)
	}
	blank := 0
	for _, l := range out {
		if l == "" {
			blank++
		}
	}
	if blank != 1 {
		t.Errorf("wrapText should separate paragraphs with exactly one blank line, got %d", blank)
	}
}
