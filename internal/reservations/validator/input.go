package validator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StartLayout = "02.01.2006 15:04"
	DateLayout  = "02.01.2006"
)

// ParseHolderName checks raw operator input without trimming it first, so
// stray whitespace is reported instead of silently fixed.
func ParseHolderName(input string) (string, error) {
	if !IsHolderName(input) {
		return "", fmt.Errorf("invalid name %q: it must be two capitalized words separated by one space", input)
	}
	return input, nil
}

// ParseStart reads a "DD.MM.YYYY HH:MM" timestamp whose minutes are 00 or
// 30. The result is a naive timestamp.
func ParseStart(input string) (time.Time, error) {
	t, err := time.Parse(StartLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD.MM.YYYY HH:MM", input)
	}
	if t.Minute() != 0 && t.Minute() != 30 {
		return time.Time{}, fmt.Errorf("invalid date %q: minutes must be 00 or 30", input)
	}
	return t, nil
}

func ParseDate(input string) (time.Time, error) {
	t, err := time.Parse(DateLayout, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected DD.MM.YYYY", input)
	}
	return t, nil
}

// ParseYesNo accepts y, yes, n and no in any letter case.
func ParseYesNo(input string) (bool, error) {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid answer %q: expected yes or no", input)
	}
}

func ParseNumber(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", input)
	}
	return n, nil
}

// ParseChoice maps a 1-based menu number onto options.
func ParseChoice[T any](input string, options []T) (T, error) {
	var zero T
	n, err := ParseNumber(input)
	if err != nil {
		return zero, err
	}
	if n < 1 || n > len(options) {
		return zero, fmt.Errorf("invalid option %d", n)
	}
	return options[n-1], nil
}
