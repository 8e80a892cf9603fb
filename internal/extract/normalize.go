package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Normalizer turns a raw cell or text fragment into a number.
type Normalizer func(raw string) (float64, bool)

var firstNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseCurrency keeps only the digits and decimal point of raw, dropping
// currency symbols, thousands separators, units and surrounding words.
// A dot survives only when it sits in front of a digit and is not glued to
// a word, so the dot of "Rs." is discarded while "12,500.50" keeps its
// decimal point. Empty or unparsable remainders report false.
func ParseCurrency(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	runes := []rune(raw)
	var b strings.Builder
	for i, r := range runes {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			nextDigit := i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'
			afterWord := i > 0 && unicode.IsLetter(runes[i-1])
			if nextDigit && !afterWord {
				b.WriteRune(r)
			}
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePercentage parses the first decimal number found anywhere in raw.
// A trailing percent sign is not required.
func ParsePercentage(raw string) (float64, bool) {
	m := firstNumber.FindString(raw)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizerFor picks the normalizer a field is parsed with.
func normalizerFor(k FieldKey) Normalizer {
	if k.IsPercent() {
		return ParsePercentage
	}
	return ParseCurrency
}
