package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Format returns a document number like "JE-2026-00001".
func Format(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%04d-%05d", prefix, year, seq)
}

// Parse splits "JE-2026-00001" into prefix, year and sequence.
func Parse(number string) (prefix string, year int, seq int64, err error) {
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("invalid document number format: %q", number)
	}

	year, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid year in document number %q: %w", number, err)
	}

	seq, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid sequence in document number %q: %w", number, err)
	}

	return parts[0], year, seq, nil
}
