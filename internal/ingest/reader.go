package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/visadata/internal/ir"
)

// Columns names the three projected columns, after header normalization.
type Columns struct {
	Year    string `json:"year"`
	Country string `json:"country"`
	Count   string `json:"count"`
}

// DefaultColumns returns the column names of the published dataset.
func DefaultColumns() Columns {
	return Columns{
		Year:    "year",
		Country: "country",
		Count:   "number_of_issued_numerical",
	}
}

// ColumnError reports projected columns missing from the header.
type ColumnError struct {
	Missing []string
	Header  []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing column(s) %s in header [%s]",
		strings.Join(e.Missing, ", "), strings.Join(e.Header, ", "))
}

// Skipped is a row left out of the result.
type Skipped struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

// Result is what a reader produced from one input.
type Result struct {
	Records []ir.RawRecord `json:"records"`
	Skipped []Skipped      `json:"skipped"`
	Dropped int            `json:"dropped"` // all-empty rows
}

// Reader projects and types raw input rows.
type Reader struct {
	cols   Columns
	sheet  string
	logger *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithColumns overrides the projected column names. Empty fields keep their
// defaults. Names are normalized like headers.
func WithColumns(c Columns) Option {
	return func(r *Reader) {
		if c.Year != "" {
			r.cols.Year = NormalizeHeader(c.Year)
		}
		if c.Country != "" {
			r.cols.Country = NormalizeHeader(c.Country)
		}
		if c.Count != "" {
			r.cols.Count = NormalizeHeader(c.Count)
		}
	}
}

// WithSheet selects the XLSX sheet to read. The default is the first sheet.
func WithSheet(name string) Option {
	return func(r *Reader) { r.sheet = name }
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// New returns a Reader with the default columns.
func New(opts ...Option) *Reader {
	r := &Reader{cols: DefaultColumns()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r
}

// Columns returns the projected column names in effect.
func (r *Reader) Columns() Columns {
	return r.cols
}

var headerReplacer = strings.NewReplacer(" ", "_", "/", "", ".", "", ",", "")

// NormalizeHeader maps a raw header cell to its lookup key.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(headerReplacer.Replace(strings.TrimSpace(h)))
}

// ReadFile dispatches on the file extension: .xlsx is read as a workbook,
// anything else as CSV.
func (r *Reader) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var res *Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		res, err = r.ReadXLSX(f)
	default:
		res, err = r.ReadCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// ReadCSV reads a comma separated table with a header row.
func (r *Reader) ReadCSV(in io.Reader) (*Result, error) {
	cr := csv.NewReader(in)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	p, err := r.newProjector(header)
	if err != nil {
		return nil, err
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		p.add(line, row)
	}
	return p.finish(), nil
}

// ReadXLSX reads a workbook, taking the header from the first row of the
// selected sheet.
func (r *Reader) ReadXLSX(in io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(in)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty: no header row", sheet)
	}

	p, err := r.newProjector(rows[0])
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		p.add(i+2, row)
	}
	return p.finish(), nil
}

type projector struct {
	r       *Reader
	year    int
	country int
	cnt     int
	res     *Result
}

func (r *Reader) newProjector(header []string) (*projector, error) {
	index := make(map[string]int, len(header))
	normalized := make([]string, len(header))
	for i, h := range header {
		key := NormalizeHeader(h)
		normalized[i] = key
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	p := &projector{
		r:       r,
		year:    lookup(r.cols.Year),
		country: lookup(r.cols.Country),
		cnt:     lookup(r.cols.Count),
		res:     &Result{Records: []ir.RawRecord{}, Skipped: []Skipped{}},
	}
	if len(missing) > 0 {
		return nil, &ColumnError{Missing: missing, Header: normalized}
	}
	return p, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func (p *projector) add(line int, row []string) {
	if allEmpty(row) {
		p.res.Dropped++
		return
	}

	rawYear := strings.TrimSpace(cell(row, p.year))
	year, ok := parseInt(rawYear)
	if !ok {
		reason := "year is not an integer"
		if rawYear == "" {
			reason = "year is empty"
		}
		p.res.Skipped = append(p.res.Skipped, Skipped{Line: line, Reason: reason, Value: rawYear})
		p.r.logger.Warn("row skipped", "line", line, "reason", reason, "value", rawYear)
		return
	}

	rec := ir.RawRecord{
		Line:    line,
		Year:    int(year),
		Country: cell(row, p.country),
	}
	rawCount := strings.TrimSpace(cell(row, p.cnt))
	if n, ok := parseInt(rawCount); ok && n >= 0 {
		rec.IssuedCount = ir.Int64(n)
	} else if rawCount != "" {
		p.r.logger.Debug("count set to null", "line", line, "value", rawCount)
	}
	p.res.Records = append(p.res.Records, rec)
}

func (p *projector) finish() *Result {
	p.r.logger.Debug("input read",
		"rows", len(p.res.Records),
		"skipped", len(p.res.Skipped),
		"dropped", p.res.Dropped,
	)
	return p.res
}

func allEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts integers and integral decimals such as "2017.0".
func parseInt(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
