package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/visadata/internal/ir"
)

// Sheet names of the report workbook.
const (
	SheetCleaned    = "cleaned"
	SheetContinents = "by_continent"
	SheetCountries  = "top_countries"
)

// Workbook holds the views written to one XLSX file.
type Workbook struct {
	Cleaned      []ir.Record
	ByContinent  []ir.ContinentYearTotal
	TopCountries []ir.CountryTotal
}

func setRows(f *excelize.File, sheet string, header []string, n int, row func(int) []any) error {
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("sheet %s header: %w", sheet, err)
	}
	for i := 0; i < n; i++ {
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(i)
		if err := f.SetSheetRow(sheet, ref, &values); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// cells leave null values as empty cells rather than zeros.
func cleanedCells(r ir.Record) []any {
	var count any
	if r.IssuedCount != nil {
		count = *r.IssuedCount
	}
	var cont any
	if r.Continent != "" {
		cont = r.Continent
	}
	return []any{r.Year, r.Country, count, cont}
}

func (wb Workbook) build() (*excelize.File, error) {
	f := excelize.NewFile()

	// Rename rather than add so the cleaned table is the first sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetCleaned); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetContinents, SheetCountries} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	err := setRows(f, SheetCleaned, CleanedHeader, len(wb.Cleaned), func(i int) []any {
		return cleanedCells(wb.Cleaned[i])
	})
	if err == nil {
		err = setRows(f, SheetContinents, ContinentsHeader, len(wb.ByContinent), func(i int) []any {
			t := wb.ByContinent[i]
			return []any{t.Year, t.Continent, t.VisaIssued}
		})
	}
	if err == nil {
		err = setRows(f, SheetCountries, CountriesHeader, len(wb.TopCountries), func(i int) []any {
			t := wb.TopCountries[i]
			return []any{t.Country, t.VisaIssued}
		})
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write encodes the workbook as XLSX to w.
func (wb Workbook) Write(w io.Writer) error {
	f, err := wb.build()
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs writes the workbook to path.
func (wb Workbook) SaveAs(path string) error {
	f, err := wb.build()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
