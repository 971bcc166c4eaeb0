// Package export writes a range of reservations to CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"courtbook/internal/availability"
	"courtbook/pkg/model"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"

	TimestampLayout = "2006-01-02 15:04"
	DayLayout       = "2006-01-02"
)

var (
	filenameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

	csvHeader = []string{"name", "start_time", "end_time"}
)

type Entry struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func ValidateFormat(ext string) (Format, error) {
	switch Format(ext) {
	case FormatCSV, FormatJSON:
		return Format(ext), nil
	default:
		return "", fmt.Errorf("unsupported format %q: expected csv or json", ext)
	}
}

// ValidateFilename accepts ASCII letters, digits, dots, dashes and
// underscores only.
func ValidateFilename(name string) error {
	if !filenameRegex.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid filename %q: use letters, digits, '.', '-' or '_'", name)
	}
	return nil
}

// Write encodes reservations, which must be sorted by start. For JSON,
// includeEmpty adds every day of [from, to] even without reservations.
func Write(w io.Writer, format Format, reservations []*model.Reservation, from, to time.Time, includeEmpty bool) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, reservations)
	case FormatJSON:
		return writeJSON(w, reservations, from, to, includeEmpty)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes to dir/name.format, replacing any existing file, and
// returns the path written.
func WriteFile(dir, name string, format Format, reservations []*model.Reservation, from, to time.Time, includeEmpty bool) (string, error) {
	if err := ValidateFilename(name); err != nil {
		return "", err
	}
	if _, err := ValidateFormat(string(format)); err != nil {
		return "", err
	}

	path := filepath.Join(dir, name+"."+string(format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, format, reservations, from, to, includeEmpty); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func writeCSV(w io.Writer, reservations []*model.Reservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reservations {
		e := toEntry(r)
		if err := cw.Write([]string{e.Name, e.StartTime, e.EndTime}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeJSON(w io.Writer, reservations []*model.Reservation, from, to time.Time, includeEmpty bool) error {
	days := make(map[string][]Entry)
	if includeEmpty {
		for day := availability.StartOfDay(from); !day.After(to); day = day.AddDate(0, 0, 1) {
			days[day.Format(DayLayout)] = []Entry{}
		}
	}
	for _, r := range reservations {
		key := r.Start.Format(DayLayout)
		days[key] = append(days[key], toEntry(r))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(days)
}

func toEntry(r *model.Reservation) Entry {
	return Entry{
		Name:      r.Holder,
		StartTime: r.Start.Format(TimestampLayout),
		EndTime:   r.End.Format(TimestampLayout),
	}
}
