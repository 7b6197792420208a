// internal/scoring/ratio.go
package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// number reads a JSON number, or a string holding one.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Ratio returns score/maxScore when both are numbers and maxScore is positive.
func Ratio(score, maxScore any) (float64, bool) {
	s, ok := number(score)
	if !ok {
		return 0, false
	}
	m, ok := number(maxScore)
	if !ok || m <= 0 {
		return 0, false
	}
	return s / m, true
}

// Percent is Ratio rounded to two decimals and scaled to 100.
func Percent(score, maxScore any) (float64, bool) {
	r, ok := Ratio(score, maxScore)
	if !ok {
		return 0, false
	}
	p, _ := strconv.ParseFloat(strconv.FormatFloat(r*100, 'f', 2, 64), 64)
	return p, true
}

// Format renders the score pair for log lines, "-" stands for a missing value.
func Format(score, maxScore any) string {
	return fmt.Sprintf("%s/%s", show(score), show(maxScore))
}

func show(v any) string {
	if v == nil {
		return "-"
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
