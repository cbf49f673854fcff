package detect

import (
	"bufio"
	"io"
	"strings"
)

// Candidates are the delimiters tried, in preference order. Preference
// breaks ties between candidates with equal counts.
var Candidates = []byte{',', ';', '\t', '|'}

// DefaultDelimiter is the fallback when no candidate qualifies.
const DefaultDelimiter = byte(',')

// DefaultLineSample is the number of lines examined for detection.
const DefaultLineSample = 10

// DetectDelimiter picks the delimiter for a set of sampled lines. A
// candidate qualifies when it appears at least once on the first line and
// the same number of times on every line; the qualifying candidate with
// the highest per-line count wins. No qualifier means DefaultDelimiter.
//
// Counts are taken on the raw line, including characters inside quoted
// fields, so a quoted field containing a candidate shifts that candidate's
// count.
func DetectDelimiter(lines []string) byte {
	if len(lines) == 0 {
		return DefaultDelimiter
	}

	best := byte(0)
	bestCount := 0

	for _, cand := range Candidates {
		count := strings.Count(lines[0], string(cand))
		if count == 0 {
			continue
		}

		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if !consistent {
			continue
		}

		if count > bestCount {
			best = cand
			bestCount = count
		}
	}

	if best == 0 {
		return DefaultDelimiter
	}
	return best
}

// SampleLines reads up to max non-blank lines from r. Read errors end the
// sample early rather than failing detection.
func SampleLines(r io.Reader, max int) []string {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for len(lines) < max && scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
