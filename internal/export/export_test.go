package export

import (
	"database/sql"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/oceanobs/bprdiff/internal/timeseries"
)

func testFrame() *timeseries.Frame {
	base := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	return &timeseries.Frame{
		Times:        []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)},
		DepthA:       []float64{1500.1, 1500.2, 1500.3},
		DepthB:       []float64{1490.1, 1490.2, 1490.3},
		Differential: []float64{10.0, math.NaN(), 10.0},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hourly.csv")
	if err := WriteCSV(path, testFrame(), "MJ03E", "MJ03F"); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	header := records[0]
	if header[1] != "depth_MJ03E_m" || header[2] != "depth_MJ03F_m" || header[3] != "differential_m" {
		t.Errorf("unexpected header: %v", header)
	}
	if records[1][0] != "2015-01-01T00:00:00Z" {
		t.Errorf("unexpected timestamp: %s", records[1][0])
	}
	// Missing differential becomes an empty field, not a zero.
	if records[2][3] != "" {
		t.Errorf("expected empty field for missing value, got %q", records[2][3])
	}
	if records[1][3] != "10" {
		t.Errorf("expected differential 10, got %q", records[1][3])
	}
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uplift.db")
	frame := testFrame()
	if err := WriteSQLite(path, frame, frame, "MJ03E", "MJ03F"); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for _, table := range []string{"uplift_hourly", "uplift_daily"} {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 3 {
			t.Errorf("%s: expected 3 rows, got %d", table, count)
		}

		var nulls int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table + ` WHERE differential_m IS NULL`).Scan(&nulls); err != nil {
			t.Fatal(err)
		}
		if nulls != 1 {
			t.Errorf("%s: expected 1 NULL differential, got %d", table, nulls)
		}
	}
}

func TestWriteSQLiteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uplift.db")
	frame := testFrame()

	// Two runs against the same database must not accumulate rows.
	if err := WriteSQLite(path, frame, frame, "MJ03E", "MJ03F"); err != nil {
		t.Fatal(err)
	}
	if err := WriteSQLite(path, frame, frame, "MJ03E", "MJ03F"); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM uplift_hourly`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows after rerun, got %d", count)
	}
}
