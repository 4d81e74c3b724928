package station

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// SelectFiles scans a station's data directory and returns the files
// whose filename-declared coverage interval overlaps the requested
// analysis window, restricted to the given sampling-cadence tag.
//
// Filenames encode their coverage as
// ..._<tag>_YYYYMMDDTHHMMSS-YYYYMMDDT...; the overlap test is
// deliberately year-granular (declared start year <= window end year
// and declared end year >= window start year) so files spanning a
// year boundary are never lost. Files without a parseable coverage
// interval are silently excluded. The result is sorted ascending by
// filename, which by construction also sorts chronologically, so the
// selection is order-stable and idempotent.
func SelectFiles(dir string, start, end time.Time, cadenceTag string) ([]string, error) {
	pattern, err := regexp.Compile(
		fmt.Sprintf(`_%s_(\d{4})\d{4}T\d{6}-(\d{4})\d{4}T`, regexp.QuoteMeta(cadenceTag)))
	if err != nil {
		return nil, fmt.Errorf("building coverage pattern for tag %q: %w", cadenceTag, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var selected []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		// The pattern guarantees four digits, so Atoi cannot fail.
		startYear, _ := strconv.Atoi(m[1])
		endYear, _ := strconv.Atoi(m[2])
		if startYear <= end.Year() && endYear >= start.Year() {
			selected = append(selected, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(selected)
	return selected, nil
}
