// Package snapshot persists canonical event snapshots, override tables, and
// review outputs as UTF-8 CSV files with a header row and no row index. CSV
// is the interchange format between every batch stage and the human
// reviewers' spreadsheets.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// Default file names inside the data directory.
const (
	SnapshotFile  = "gdacs_flood_db.csv"
	LatestFile    = "latest_gdacs_flood_db.csv"
	CorrectedFile = "gdacs_flood_db_corrected.csv"
	ReviewFile    = "needs_review.csv"
	WorksheetFile = "review_work.csv"
	TemplateFile  = "validation_overrides_template.csv"
)

// errorSeparator joins rule IDs in the validation_errors column.
const errorSeparator = ";"

// LoadSnapshot reads a snapshot CSV. A missing or empty file is the bootstrap
// case and yields a nil snapshot with no error.
func LoadSnapshot(path string) ([]domain.Event, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var events []domain.Event
	if err := gocsv.UnmarshalFile(f, &events); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return events, nil
}

// WriteSnapshot writes a snapshot CSV, creating parent directories as needed.
func WriteSnapshot(path string, events []domain.Event) error {
	return writeCSV(path, &events)
}

// LoadOverrides reads the human-edited correction table. Missing or empty
// files mean no corrections.
func LoadOverrides(path string) ([]domain.Override, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open overrides: %w", err)
	}
	defer f.Close()

	var overrides []domain.Override
	if err := gocsv.UnmarshalFile(f, &overrides); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("read overrides %s: %w", path, err)
	}
	return overrides, nil
}

// reviewRow is the full-fidelity review file row: every snapshot column plus
// the joined violation list.
type reviewRow struct {
	domain.Event
	ValidationErrors string `csv:"validation_errors"`
}

// worksheetRow is the reviewer-facing narrow table: identity, errors, and the
// geospatial/temporal fields a reviewer needs to decide a correction.
type worksheetRow struct {
	GDACSID          string `csv:"GDACS_ID"`
	ValidationErrors string `csv:"validation_errors"`
	Country          string `csv:"country"`
	CountryLonLat    string `csv:"country_lonlat"`
	Continent        string `csv:"continent"`
	ContinentLonLat  string `csv:"continent_lonlat"`
	Equi7GridCode    string `csv:"equi7_grid_code"`
	AlertLevel       string `csv:"alertlevel"`
	FromDate         string `csv:"fromdate"`
	ToDate           string `csv:"todate"`
	GeometryURL      string `csv:"geometry_url"`
}

// WriteReview writes the full-fidelity needs-review file.
func WriteReview(path string, records []domain.ReviewRecord) error {
	rows := make([]reviewRow, len(records))
	for i, r := range records {
		rows[i] = reviewRow{Event: r.Event, ValidationErrors: joinRules(r.Errors)}
	}
	return writeCSV(path, &rows)
}

// WriteWorksheet writes the reviewer-facing narrow table.
func WriteWorksheet(path string, records []domain.ReviewRecord) error {
	rows := make([]worksheetRow, len(records))
	for i, r := range records {
		rows[i] = worksheetRow{
			GDACSID:          r.GDACSID,
			ValidationErrors: joinRules(r.Errors),
			Country:          r.Country,
			CountryLonLat:    r.CountryLonLat,
			Continent:        r.Continent,
			ContinentLonLat:  r.ContinentLonLat,
			Equi7GridCode:    r.Equi7GridCode,
			AlertLevel:       r.AlertLevel,
			FromDate:         r.FromDate,
			ToDate:           r.ToDate,
			GeometryURL:      r.GeometryURL,
		}
	}
	return writeCSV(path, &rows)
}

// WriteTemplate writes a blank correction template keyed by the review
// subset's IDs, ready for a reviewer to fill in.
func WriteTemplate(path string, records []domain.ReviewRecord) error {
	rows := make([]domain.Override, len(records))
	for i, r := range records {
		rows[i] = domain.Override{GDACSID: r.GDACSID}
	}
	return writeCSV(path, &rows)
}

func joinRules(rules []domain.RuleID) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = string(r)
	}
	return strings.Join(parts, errorSeparator)
}

func writeCSV(path string, rows any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := gocsv.MarshalFile(rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// FileStore resolves the well-known snapshot files inside one data directory
// and implements pipeline.SnapshotStore for the updater.
type FileStore struct {
	Dir string
}

func (s FileStore) SnapshotPath() string  { return filepath.Join(s.Dir, SnapshotFile) }
func (s FileStore) LatestPath() string    { return filepath.Join(s.Dir, LatestFile) }
func (s FileStore) CorrectedPath() string { return filepath.Join(s.Dir, CorrectedFile) }
func (s FileStore) TemplatePath() string  { return filepath.Join(s.Dir, TemplateFile) }

// SaveSnapshot persists the freshly downloaded snapshot.
func (s FileStore) SaveSnapshot(events []domain.Event) error {
	return WriteSnapshot(s.SnapshotPath(), events)
}

// LoadLatest reads the previous "latest" snapshot; nil means bootstrap.
func (s FileStore) LoadLatest() ([]domain.Event, error) {
	return LoadSnapshot(s.LatestPath())
}

// SaveLatest replaces the "latest" snapshot.
func (s FileStore) SaveLatest(events []domain.Event) error {
	return WriteSnapshot(s.LatestPath(), events)
}
