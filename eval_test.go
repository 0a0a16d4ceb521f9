package main

import "testing"

func TestMathEvaluatorLeftToRight(t *testing.T) {
	h := newMathEvaluatorHandler(&Client{}, false)
	tests := []struct {
		input  string
		output float64
	}{
		{"2 + 3 * 4", 20},
		{"10 - 2 - 3", 5},
		{"8 / 2 / 2", 2},
	}
	for _, test := range tests {
		out, err := h.evaluate(test.input)
		if err != nil {
			t.Fatalf("evaluate(%q): %s", test.input, err)
		}
		if out != test.output {
			t.Errorf("evaluate(%q) = %v, wanted %v", test.input, out, test.output)
		}
	}
}

func TestMathEvaluatorPrecedence(t *testing.T) {
	h := newMathEvaluatorHandler(&Client{}, true)
	tests := []struct {
		input  string
		output float64
	}{
		{"2 + 3 * 4", 14},
		{"10 - 2 * 3", 4},
		{"2 * 3 + 4 * 5", 26},
	}
	for _, test := range tests {
		out, err := h.evaluate(test.input)
		if err != nil {
			t.Fatalf("evaluate(%q): %s", test.input, err)
		}
		if out != test.output {
			t.Errorf("evaluate(%q) = %v, wanted %v", test.input, out, test.output)
		}
	}
}

func TestMathEvaluatorDivisionByZero(t *testing.T) {
	h := newMathEvaluatorHandler(&Client{}, true)
	if _, err := h.evaluate("1 / 0"); err == nil {
		t.Fatal("division by zero should be an error")
	}
}

func TestMathEvaluatorMalformed(t *testing.T) {
	h := newMathEvaluatorHandler(&Client{}, true)
	if _, err := h.evaluate("2 +"); err == nil {
		t.Fatal("trailing operator should be an error")
	}
	if _, err := h.evaluate("abc"); err == nil {
		t.Fatal("non-numeric token should be an error")
	}
}
