// Command genmanifest writes a manifest of GES DISC OPeNDAP subset URLs for
// the MERRA-2 single-level diagnostics collection (M2T1NXSLV), one URL per
// day in the requested range. The grid cell is selected by index; use the
// GES DISC subsetter to find the indices for a site's coordinates.
//
// Usage:
//
//	go run ./cmd/genmanifest \
//	  -start 2014-01-01 -end 2014-12-31 \
//	  -lat-index 182 -lon-index 312 \
//	  -out manifest.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

const dateLayout = "2006-01-02"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the manifest")
	start := flag.String("start", "", "first day to include (YYYY-MM-DD)")
	end := flag.String("end", "", "last day to include (YYYY-MM-DD)")
	latIdx := flag.Int("lat-index", 0, "latitude grid index of the site cell")
	lonIdx := flag.Int("lon-index", 0, "longitude grid index of the site cell")
	flag.Parse()

	if *out == "" || *start == "" || *end == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -start, -end")
	}

	from, err := time.Parse(dateLayout, *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	to, err := time.Parse(dateLayout, *end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("-end %s precedes -start %s", *end, *start)
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# MERRA-2 M2T1NXSLV hourly subset URLs, %s to %s, cell [%d][%d]\n",
		*start, *end, *latIdx, *lonIdx)

	days := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		fmt.Fprintln(w, sourceURL(day, *latIdx, *lonIdx))
		days++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	log.Printf("wrote %d source URLs to %s", days, *out)
	return nil
}

// streamNumber returns the MERRA-2 production stream for a given year. The
// stream is part of the granule filename, not a format version.
func streamNumber(year int) int {
	switch {
	case year < 1992:
		return 100
	case year < 2001:
		return 200
	case year < 2011:
		return 300
	default:
		return 400
	}
}

// sourceURL builds the OPeNDAP URL for one day's granule, constrained to the
// 24 hourly samples of a single grid cell. The stream number is always three
// digits, so the granule date lands at a fixed byte offset in every URL.
func sourceURL(day time.Time, latIdx, lonIdx int) string {
	return fmt.Sprintf(
		"https://goldsmr4.gesdisc.eosdis.nasa.gov/opendap/MERRA2/M2T1NXSLV.5.12.4/%04d/%02d/MERRA2_%d.tavg1_2d_slv_Nx.%s.nc4.nc4?U50M[0:23][%d][%d],V50M[0:23][%d][%d],T2M[0:23][%d][%d],PS[0:23][%d][%d],time",
		day.Year(), int(day.Month()), streamNumber(day.Year()), day.Format("20060102"),
		latIdx, lonIdx, latIdx, lonIdx, latIdx, lonIdx, latIdx, lonIdx,
	)
}
