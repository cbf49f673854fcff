package frame

import (
	"strconv"
	"strings"
	"time"
)

type cellKind uint8

const (
	kindNull cellKind = iota
	kindBool
	kindInt
	kindFloat
	kindTime
	kindString
)

// IsNullToken reports whether a trimmed cell denotes a missing value.
func IsNullToken(s string) bool {
	switch s {
	case "", "NULL", "null", "NA", "N/A", "n/a", "None", "none", "nil", "-", "\\N":
		return true
	}
	return false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
}

// ParseTime parses a cell against the supported timestamp layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func kindOf(raw string) cellKind {
	s := strings.TrimSpace(raw)

	if IsNullToken(s) {
		return kindNull
	}

	if _, ok := parseBool(s); ok {
		return kindBool
	}

	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return kindInt
	}

	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return kindFloat
	}

	if _, ok := ParseTime(s); ok {
		return kindTime
	}

	return kindString
}

// Infer selects a column type from sampled raw cells. Ints sharing a column
// with floats widen to float; any other mixture of kinds degrades to string.
// An all-null sample is a string column.
func Infer(samples []string) Type {
	var counts [kindString + 1]int
	for _, s := range samples {
		counts[kindOf(s)]++
	}

	if counts[kindString] > 0 {
		return TypeString
	}
	if counts[kindTime] > 0 {
		if counts[kindInt]+counts[kindFloat]+counts[kindBool] > 0 {
			return TypeString
		}
		return TypeTime
	}
	if counts[kindBool] > 0 {
		if counts[kindInt]+counts[kindFloat] > 0 {
			return TypeString
		}
		return TypeBool
	}
	if counts[kindFloat] > 0 {
		return TypeFloat
	}
	if counts[kindInt] > 0 {
		return TypeInt
	}
	return TypeString
}

// InferColumns infers one type per column from sampled rows. Short rows
// contribute nulls for their missing trailing cells.
func InferColumns(names []string, rows [][]string) []Type {
	types := make([]Type, len(names))
	samples := make([][]string, len(names))

	for _, row := range rows {
		for i := range names {
			if i < len(row) {
				samples[i] = append(samples[i], row[i])
			}
		}
	}
	for i := range names {
		types[i] = Infer(samples[i])
	}
	return types
}
