// Command validate performs integrity checks on an assembled output table:
// header layout, timestamp format and ordering within each day, and
// recomputation of the derived density and wind speed columns from the raw
// measurement columns.
//
// Usage:
//
//	go run ./cmd/validate -table merra2_site.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"merra2-wind-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	tablePath := flag.String("table", "", "path to the assembled output CSV")
	flag.Parse()

	if *tablePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*tablePath); code != 0 {
		os.Exit(code)
	}
}

// record is one parsed data row, column values in header order.
type record struct {
	lineNum  int
	datetime string
	values   map[string]float64
}

func run(tablePath string) int {
	fmt.Println("=== Output Table Integrity Validation ===")
	fmt.Println()

	header, records, err := loadTable(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load table: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHeader(header),
		validateTimestamps(records),
		validateDerivedColumns(records),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadTable(path string) ([]string, []record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("empty file %s", path)
	}

	header := all[0]
	records := make([]record, 0, len(all)-1)
	for i, row := range all[1:] {
		rec := record{lineNum: i + 2, values: make(map[string]float64, len(header))}
		for j, h := range header {
			if j >= len(row) {
				continue
			}
			if h == "datetime" {
				rec.datetime = row[j]
				continue
			}
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: column %q: %w", rec.lineNum, h, err)
			}
			rec.values[h] = v
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// ── Phase 1: Header ──
// The column set and order are part of the table's contract.

func validateHeader(header []string) *phase {
	p := &phase{name: "Phase 1: Header Layout"}

	if len(header) != len(domain.Columns) {
		p.errorf("expected %d columns, got %d", len(domain.Columns), len(header))
		return p
	}
	for i, want := range domain.Columns {
		if header[i] != want {
			p.errorf("column %d: expected %q, got %q", i, want, header[i])
		}
	}
	return p
}

// ── Phase 2: Timestamps ──

func validateTimestamps(records []record) *phase {
	p := &phase{name: "Phase 2: Timestamp Format"}

	var prev time.Time
	for _, rec := range records {
		ts, err := time.Parse(domain.TimeFormat, rec.datetime)
		if err != nil {
			p.errorf("line %d: unparseable datetime %q", rec.lineNum, rec.datetime)
			continue
		}
		// Rows arrive in source-processing order, so monotonic time is only
		// guaranteed within a day's 24 samples.
		if !prev.IsZero() && ts.YearDay() == prev.YearDay() && ts.Year() == prev.Year() && !ts.After(prev) {
			p.errorf("line %d: datetime %q does not advance within its day", rec.lineNum, rec.datetime)
		}
		prev = ts
	}
	return p
}

// ── Phase 3: Derived Columns ──
// Re-derives density and wind speed from the raw columns and compares.

func validateDerivedColumns(records []record) *phase {
	p := &phase{name: "Phase 3: Derived Columns"}

	for _, rec := range records {
		dens, err := domain.AirDensity(
			[]float64{rec.values["temp_2m"]},
			[]float64{rec.values["surface_pressure"]},
			nil,
		)
		if err != nil {
			p.errorf("line %d: density recomputation: %v", rec.lineNum, err)
			continue
		}
		if !floatEq(dens[0], rec.values["dens_50m"]) {
			p.errorf("line %d: dens_50m: expected %g, got %g", rec.lineNum, dens[0], rec.values["dens_50m"])
		}

		ws := domain.WindSpeed([]float64{rec.values["u_50"]}, []float64{rec.values["v_50"]})
		if !floatEq(ws[0], rec.values["ws_50m"]) {
			p.errorf("line %d: ws_50m: expected %g, got %g", rec.lineNum, ws[0], rec.values["ws_50m"])
		}
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
