package station

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeFiles(t *testing.T, dir string, names []string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("time,pressure_psia\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSelectFiles(t *testing.T) {
	window := func(startYear, endYear int) (time.Time, time.Time) {
		return time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(endYear, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		files     []string
		startYear int
		endYear   int
		expected  []string
	}{
		{
			name: "year overlap selects spanning files",
			files: []string{
				"botpt_15s_20140101T000000-20141231T235959.csv",
				"botpt_15s_20141201T000000-20150115T235959.csv",
				"botpt_15s_20150116T000000-20150601T235959.csv",
				"botpt_15s_20170101T000000-20171231T235959.csv",
			},
			startYear: 2015,
			endYear:   2016,
			expected: []string{
				"botpt_15s_20141201T000000-20150115T235959.csv",
				"botpt_15s_20150116T000000-20150601T235959.csv",
			},
		},
		{
			name: "other cadence tags excluded",
			files: []string{
				"botpt_15s_20150101T000000-20150601T235959.csv",
				"botpt_1hr_20150101T000000-20150601T235959.csv",
				"botpt_20hz_20150101T000000-20150601T235959.csv",
			},
			startYear: 2015,
			endYear:   2016,
			expected:  []string{"botpt_15s_20150101T000000-20150601T235959.csv"},
		},
		{
			name: "unparseable names silently excluded",
			files: []string{
				"botpt_15s_20150101T000000-20150601T235959.csv",
				"README.txt",
				"botpt_15s_notadate.csv",
			},
			startYear: 2015,
			endYear:   2016,
			expected:  []string{"botpt_15s_20150101T000000-20150601T235959.csv"},
		},
		{
			name: "no matches is a valid empty result",
			files: []string{
				"botpt_15s_20100101T000000-20101231T235959.csv",
			},
			startYear: 2015,
			endYear:   2016,
			expected:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)
			start, end := window(tt.startYear, tt.endYear)

			got, err := SelectFiles(dir, start, end, "15s")
			if err != nil {
				t.Fatal(err)
			}

			var names []string
			for _, p := range got {
				names = append(names, filepath.Base(p))
			}
			if !reflect.DeepEqual(names, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, names)
			}

			// Selection must be idempotent and order-stable.
			again, err := SelectFiles(dir, start, end, "15s")
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, again) {
				t.Errorf("selection not stable: %v vs %v", got, again)
			}
		})
	}
}

func TestSelectFilesMissingDir(t *testing.T) {
	_, err := SelectFiles(filepath.Join(t.TempDir(), "absent"), time.Now(), time.Now().Add(time.Hour), "15s")
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}
