package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes keep digests of different views from colliding even when
// their canonical encodings happen to match.
const (
	DomainCleaned    = "visadata/cleaned/v1"
	DomainContinents = "visadata/continents/v1"
	DomainCountries  = "visadata/countries/v1"
	DomainRun        = "visadata/run/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func digestArray(domain string, arr Array) (string, error) {
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// DigestRecords fingerprints a cleaned table. Row order is significant.
func DigestRecords(records []Record) (string, error) {
	arr := make(Array, len(records))
	for i, r := range records {
		arr[i] = r.ToValue()
	}
	return digestArray(DomainCleaned, arr)
}

// DigestContinentTotals fingerprints the by-continent view.
func DigestContinentTotals(rows []ContinentYearTotal) (string, error) {
	arr := make(Array, len(rows))
	for i, r := range rows {
		arr[i] = r.ToValue()
	}
	return digestArray(DomainContinents, arr)
}

// DigestCountryTotals fingerprints the top-countries view.
func DigestCountryTotals(rows []CountryTotal) (string, error) {
	arr := make(Array, len(rows))
	for i, r := range rows {
		arr[i] = r.ToValue()
	}
	return digestArray(DomainCountries, arr)
}

// RunDigest combines the three view digests with the parameters that produced
// them. Two runs with equal RunDigest produced identical output.
func RunDigest(cleaned, continents, countries string, year, limit, threshold int) (string, error) {
	obj := Object{
		"cleaned":        String(cleaned),
		"continents":     String(continents),
		"countries":      String(countries),
		"year":           Int(year),
		"limit":          Int(limit),
		"threshold":      Int(threshold),
		"digest_version": String(DigestVersion),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("run digest: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}
