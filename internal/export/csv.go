// Package export writes the cleaned table and the aggregate views to CSV
// and XLSX. Null counts and null continents are written as empty cells.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roach88/visadata/internal/ir"
)

// Column headers. The cleaned table keeps the input's projected names.
var (
	CleanedHeader    = []string{"year", "country", "number_of_issued_numerical", "continent"}
	ContinentsHeader = []string{"year", "continent", "visa_issued"}
	CountriesHeader  = []string{"country", "visa_issued"}
)

func cleanedRow(r ir.Record) []string {
	count := ""
	if r.IssuedCount != nil {
		count = strconv.FormatInt(*r.IssuedCount, 10)
	}
	return []string{strconv.Itoa(r.Year), r.Country, count, r.Continent}
}

func continentRow(t ir.ContinentYearTotal) []string {
	return []string{strconv.Itoa(t.Year), t.Continent, strconv.FormatInt(t.VisaIssued, 10)}
}

func countryRow(t ir.CountryTotal) []string {
	return []string{t.Country, strconv.FormatInt(t.VisaIssued, 10)}
}

func writeCSV(w io.Writer, header []string, n int, row func(int) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := cw.Write(row(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCleanedCSV writes the cleaned table with a header row.
func WriteCleanedCSV(w io.Writer, records []ir.Record) error {
	return writeCSV(w, CleanedHeader, len(records), func(i int) []string {
		return cleanedRow(records[i])
	})
}

// WriteContinentsCSV writes the per year and continent totals.
func WriteContinentsCSV(w io.Writer, totals []ir.ContinentYearTotal) error {
	return writeCSV(w, ContinentsHeader, len(totals), func(i int) []string {
		return continentRow(totals[i])
	})
}

// WriteCountriesCSV writes the country ranking.
func WriteCountriesCSV(w io.Writer, totals []ir.CountryTotal) error {
	return writeCSV(w, CountriesHeader, len(totals), func(i int) []string {
		return countryRow(totals[i])
	})
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
