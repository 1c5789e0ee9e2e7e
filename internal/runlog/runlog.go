package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/reclass/internal/id"
)

// Entry is one row in the analysis log.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Command   string
	Dataset   string
	Digest    string
	Balanced  bool
	Details   string
}

// Header is the CSV header for analysis-log.csv.
const Header = "timestamp,run_id,command,dataset,digest,balanced,details"

const (
	numFields   = 7
	logDir      = "logs"
	logFile     = "logs/analysis-log.csv"
	colTime     = 0
	colRunID    = 1
	colCommand  = 2
	colDataset  = 3
	colDigest   = 4
	colBalanced = 5
	colDetails  = 6
)

// Path returns the log file location inside a workspace.
func Path(root string) string {
	return filepath.Join(root, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colCommand] = e.Command
	row[colDataset] = e.Dataset
	row[colDigest] = e.Digest
	row[colBalanced] = strconv.FormatBool(e.Balanced)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	balanced, err := strconv.ParseBool(record[colBalanced])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing balanced %q: %w", record[colBalanced], err)
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Command:   record[colCommand],
		Dataset:   record[colDataset],
		Digest:    record[colDigest],
		Balanced:  balanced,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <root>/logs/analysis-log.csv, creating the file and header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening analysis log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/analysis-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening analysis log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading analysis log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// NextRunID returns the next run ID for the day of now, one past the highest
// sequence already logged for that day.
func NextRunID(root string, now time.Time) (string, error) {
	entries, err := Read(root)
	if err != nil {
		return "", err
	}

	today := now.Format(time.DateOnly)
	seq := 0
	for _, e := range entries {
		day, n, err := id.ParseRunID(e.RunID)
		if err != nil {
			continue
		}
		if day.Format(time.DateOnly) == today && n > seq {
			seq = n
		}
	}
	return id.FormatRunID(now, seq+1), nil
}
