package main

import (
	"strconv"
	"strings"
)

// MathEvaluatorHandler is the inside menu's `eval` proof-of-concept: a
// four-function calculator over whitespace-separated tokens, scoped down
// from original_source's fuller expression evaluator (SPEC_FULL.md §13).
// The "old" and "new" variants differ only in operator precedence: old
// evaluates strictly left to right, new applies standard precedence
// (*, / before +, -).
type MathEvaluatorHandler struct {
	client     *Client
	precedence bool
}

func newMathEvaluatorHandler(c *Client, precedence bool) *MathEvaluatorHandler {
	return &MathEvaluatorHandler{client: c, precedence: precedence}
}

func (h *MathEvaluatorHandler) handle() (Handler, error) {
	conn := h.client.conn
	if err := conn.Print("Enter an expression like: 2 + 3 * 4, or exit to leave."); err != nil {
		return nil, err
	}
	for {
		line, err := conn.Input("Eval:")
		if err != nil {
			return nil, err
		}
		if line == "exit" {
			return nil, nil
		}
		if line == "" {
			continue
		}
		result, err := h.evaluate(line)
		if err != nil {
			if err := conn.Print("Error:", err.Error()); err != nil {
				return nil, err
			}
			continue
		}
		if err := conn.Print("=", result); err != nil {
			return nil, err
		}
	}
}

func (h *MathEvaluatorHandler) evaluate(line string) (float64, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || len(tokens)%2 == 0 {
		return 0, newSimpleError("expected: number (op number)*")
	}

	values := make([]float64, 0, (len(tokens)+1)/2)
	ops := make([]string, 0, len(tokens)/2)

	for i, tok := range tokens {
		if i%2 == 0 {
			n, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return 0, newSimpleError("not a number: " + tok)
			}
			values = append(values, n)
			continue
		}
		switch tok {
		case "+", "-", "*", "/":
			ops = append(ops, tok)
		default:
			return 0, newSimpleError("unknown operator: " + tok)
		}
	}

	if !h.precedence {
		return evalLeftToRight(values, ops)
	}
	return evalWithPrecedence(values, ops)
}

func evalLeftToRight(values []float64, ops []string) (float64, error) {
	result := values[0]
	for i, op := range ops {
		v, err := apply(op, result, values[i+1])
		if err != nil {
			return 0, err
		}
		result = v
	}
	return result, nil
}

// evalWithPrecedence first collapses every * and / pass, then folds the
// remaining + and - left to right.
func evalWithPrecedence(values []float64, ops []string) (float64, error) {
	vals := append([]float64{}, values...)
	operators := append([]string{}, ops...)

	for i := 0; i < len(operators); {
		if operators[i] == "*" || operators[i] == "/" {
			v, err := apply(operators[i], vals[i], vals[i+1])
			if err != nil {
				return 0, err
			}
			vals[i] = v
			vals = append(vals[:i+1], vals[i+2:]...)
			operators = append(operators[:i], operators[i+1:]...)
			continue
		}
		i++
	}

	return evalLeftToRight(vals, operators)
}

func apply(op string, a, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, newSimpleError("division by zero")
		}
		return a / b, nil
	default:
		return 0, newSimpleError("unknown operator: " + op)
	}
}
