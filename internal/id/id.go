package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatTransactionID returns a transaction ID like "2025-01-001".
func FormatTransactionID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// ParseTransactionID parses "2025-01-001" into year, month, seq.
func ParseTransactionID(id string) (year, month, seq int, err error) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid transaction ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in transaction ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in transaction ID %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("month out of range in transaction ID %q", id)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in transaction ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// Next returns the ID following the highest sequence among existing for the
// month containing t. IDs that fail to parse or belong to other months are ignored.
func Next(existing []string, t time.Time) string {
	year, month := t.Year(), int(t.Month())
	maxSeq := 0
	for _, e := range existing {
		y, m, seq, err := ParseTransactionID(e)
		if err != nil || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatTransactionID(year, month, maxSeq+1)
}
