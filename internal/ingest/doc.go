// Package ingest reads the raw visa issuance table from CSV or XLSX.
//
// Headers are normalized before column lookup: spaces become underscores,
// slashes, dots and commas are dropped, and the result is lower-cased, so
// "Number of issued (numerical)" style headers match regardless of case.
// Rows whose every cell is empty are dropped. Rows whose year cannot be read
// as an integer are skipped and reported; unreadable counts become null.
package ingest
