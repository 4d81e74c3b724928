package export

import (
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/oceanobs/bprdiff/internal/timeseries"
)

// WriteSQLite writes the hourly and daily frames into the uplift_hourly
// and uplift_daily tables of a SQLite database, replacing any previous
// run's rows.
func WriteSQLite(dbPath string, hourly, daily *timeseries.Frame, stationA, stationB string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening sqlite database %s: %w", dbPath, err)
	}
	defer db.Close()

	if err := writeTable(db, "uplift_hourly", hourly, stationA, stationB); err != nil {
		return err
	}
	return writeTable(db, "uplift_daily", daily, stationA, stationB)
}

func writeTable(db *sql.DB, table string, f *timeseries.Frame, stationA, stationB string) error {
	_, err := db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table))
	if err != nil {
		return fmt.Errorf("dropping table %s: %w", table, err)
	}

	_, err = db.Exec(fmt.Sprintf(
		`CREATE TABLE %s (
			time TEXT PRIMARY KEY,
			depth_%s_m REAL,
			depth_%s_m REAL,
			differential_m REAL
		)`, table, stationA, stationB))
	if err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction for %s: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(fmt.Sprintf(
		`INSERT INTO %s (time, depth_%s_m, depth_%s_m, differential_m) VALUES (?, ?, ?, ?)`,
		table, stationA, stationB))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for i, t := range f.Times {
		_, err = stmt.Exec(
			t.UTC().Format("2006-01-02T15:04:05Z"),
			nullable(f.DepthA[i]),
			nullable(f.DepthB[i]),
			nullable(f.Differential[i]),
		)
		if err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}
	return nil
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}
