package ir

// Sentinel country values that mark placeholder aggregate rows in the source
// data rather than real countries.
const (
	SentinelTotal  = "total"
	SentinelOthers = "others"
)

// DefaultSentinels is the sentinel set excluded from country rankings.
var DefaultSentinels = []string{SentinelTotal, SentinelOthers}

// RawRecord is one input row after column projection and type coercion.
type RawRecord struct {
	Line        int    `json:"line"` // 1-based source line or sheet row, 0 when synthetic
	Year        int    `json:"year"`
	Country     string `json:"country"`
	IssuedCount *int64 `json:"issued_count"`
}

// Record is one row of the cleaned dataset.
//
// Country holds the canonical name, an override target, or the original
// input when nothing matched. An empty Country is how a null source value is
// represented. Continent is empty exactly when the continent mapper could not
// classify Country.
type Record struct {
	Year        int    `json:"year"`
	Country     string `json:"country"`
	IssuedCount *int64 `json:"issued_count"`
	Continent   string `json:"continent"`
}

// Count returns the issued count, treating a missing count as zero.
func (r Record) Count() int64 {
	if r.IssuedCount == nil {
		return 0
	}
	return *r.IssuedCount
}

// HasContinent reports whether the record was classified.
func (r Record) HasContinent() bool {
	return r.Continent != ""
}

// ContinentYearTotal is one row of the by-continent view.
type ContinentYearTotal struct {
	Year       int    `json:"year"`
	Continent  string `json:"continent"`
	VisaIssued int64  `json:"visa_issued"`
}

// CountryTotal is one row of the top-countries view.
type CountryTotal struct {
	Country    string `json:"country"`
	VisaIssued int64  `json:"visa_issued"`
}

// Int64 returns a pointer to n. Handy for building records in tests and
// ingest code.
func Int64(n int64) *int64 {
	return &n
}
