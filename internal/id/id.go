package id

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/reclass/internal/model"
)

// digestPrefix marks dataset digests so they can't be mistaken for run IDs.
const digestPrefix = "sha256:"

// Dataset returns a stable digest of a record set, like "sha256:3f1c...".
// Record order is part of the identity since it drives drill-down order.
func Dataset(records []model.AccountRecord) string {
	h := sha256.New()
	for _, r := range records {
		fields := []string{
			r.LedgerGroupCode,
			r.LedgerGroupDescription,
			r.AccountCode,
			r.AccountDescription,
			r.Amount.String(),
			string(r.Section),
			r.OrderingKey,
			r.AccountType,
			strconv.FormatBool(r.AmountCoerced),
		}
		for _, f := range fields {
			// Length-prefix each field so "ab","c" and "a","bc" differ.
			fmt.Fprintf(h, "%d:%s", len(f), f)
		}
		h.Write([]byte{'\n'})
	}
	return digestPrefix + hex.EncodeToString(h.Sum(nil))
}

// Short returns the first 12 hex characters of a dataset digest.
func Short(digest string) string {
	hexPart := strings.TrimPrefix(digest, digestPrefix)
	if len(hexPart) > 12 {
		return hexPart[:12]
	}
	return hexPart
}

// FormatRunID returns a run ID like "2025-01-15-001".
func FormatRunID(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", day.Format(time.DateOnly), seq)
}

// ParseRunID parses "2025-01-15-001" into its day and sequence number.
func ParseRunID(id string) (day time.Time, seq int, err error) {
	i := strings.LastIndex(id, "-")
	if i < 0 {
		return time.Time{}, 0, fmt.Errorf("invalid run ID format: %q", id)
	}

	day, err = time.Parse(time.DateOnly, id[:i])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid day in run ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid sequence in run ID %q: %w", id, err)
	}

	return day, seq, nil
}
