// Package csvfile reads the car dataset from a CSV file with a header row.
//
// The header must name every column in domain.Columns; extra columns are
// ignored. Rows are returned in file order and numbered from 1 (the first
// data row after the header).
package csvfile
