// Package detect provides encoding and delimiter detection for delimited
// text sources. Detection is best-effort: low confidence resolves to safe
// defaults instead of failing the load.
package detect

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultSampleSize is the number of bytes read for detection.
const DefaultSampleSize = 64 * 1024 // 64KB

// MinConfidence is the threshold below which a detected encoding is
// discarded in favor of DefaultEncoding.
const MinConfidence = 0.7

// DefaultEncoding is the fallback when detection is inconclusive.
const DefaultEncoding = EncodingUTF8

// Encoding represents character encoding.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingUTF8
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingLatin1
	EncodingASCII
)

var encodingNames = []string{"unknown", "utf-8", "utf-8-bom", "utf-16le", "utf-16be", "latin-1", "ascii"}

// String returns the encoding name.
func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return "unknown"
}

// Result is a detected encoding with its confidence in [0, 1].
type Result struct {
	Encoding   Encoding
	Confidence float64
}

// DetectEncoding identifies the character encoding of a byte sample.
// It never fails: inconclusive samples return a low-confidence result
// that Resolve maps to the default.
func DetectEncoding(sample []byte) Result {
	if len(sample) == 0 {
		return Result{EncodingUnknown, 0}
	}

	// BOMs are definitive.
	if len(sample) >= 3 && sample[0] == 0xEF && sample[1] == 0xBB && sample[2] == 0xBF {
		return Result{EncodingUTF8BOM, 1.0}
	}
	if len(sample) >= 2 {
		if sample[0] == 0xFF && sample[1] == 0xFE {
			return Result{EncodingUTF16LE, 1.0}
		}
		if sample[0] == 0xFE && sample[1] == 0xFF {
			return Result{EncodingUTF16BE, 1.0}
		}
	}

	// BOM-less UTF-16 shows as a zero byte on every other position.
	if r, ok := detectUTF16(sample); ok {
		return r
	}

	if utf8.Valid(sample) {
		isASCII := true
		for _, b := range sample {
			if b > 127 {
				isASCII = false
				break
			}
		}
		if isASCII {
			return Result{EncodingASCII, 1.0}
		}
		return Result{EncodingUTF8, 0.95}
	}

	// Not valid UTF-8: score as Latin-1 by the ratio of printable bytes.
	printable := 0
	for _, b := range sample {
		if (b >= 0x20 && b < 0x7F) || b >= 0xA0 || b == '\n' || b == '\r' || b == '\t' {
			printable++
		}
	}
	return Result{EncodingLatin1, float64(printable) / float64(len(sample))}
}

func detectUTF16(sample []byte) (Result, bool) {
	if len(sample) < 4 {
		return Result{}, false
	}
	var evenZeros, oddZeros int
	for i, b := range sample {
		if b != 0 {
			continue
		}
		if i%2 == 0 {
			evenZeros++
		} else {
			oddZeros++
		}
	}
	pairs := len(sample) / 2
	if evenZeros+oddZeros < pairs/3 {
		return Result{}, false
	}
	total := float64(evenZeros + oddZeros)
	if evenZeros > oddZeros {
		return Result{EncodingUTF16BE, float64(evenZeros) / total}, true
	}
	return Result{EncodingUTF16LE, float64(oddZeros) / total}, true
}

// Resolve applies the confidence threshold: results below MinConfidence
// (or unknown) resolve to DefaultEncoding.
func Resolve(r Result) Encoding {
	if r.Encoding == EncodingUnknown || r.Confidence < MinConfidence {
		return DefaultEncoding
	}
	return r.Encoding
}

// NewReader wraps r so it yields UTF-8 regardless of the source encoding.
func NewReader(r io.Reader, enc Encoding) io.Reader {
	switch enc {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM.NewDecoder().Reader(r)
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Reader(r)
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder().Reader(r)
	default:
		return r
	}
}
