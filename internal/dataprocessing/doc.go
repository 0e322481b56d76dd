// Package dataprocessing is the cleaning and aggregation engine for
// time-and-attendance workbooks. It covers the complete lifecycle from Excel
// ingestion to overtime analytics.
//
// # Architecture
//
// The package is organized into five components:
//
//  1. Normalizer: converts heterogeneous cell values (clock text, Excel
//     fractional days, decimal hours, serial dates) to decimal hours or
//     calendar dates
//  2. Parser: reads worksheets into rows with canonical column names,
//     resolved through a declarative header alias table
//  3. Cleaner: filters invalid rows, deduplicates on (employee id, work
//     date) and produces the canonical RecordSet
//  4. Analytics: pure rollups over an immutable RecordSet (by employee,
//     by month, by day, top-N, overall)
//  5. Formatter: renders decimal hours as HH:MM:SS and DD:HH:MM:SS
//
// # Data Flow
//
//	Workbook → Parser → RawRows → Cleaner → RecordSet → Analytics → AggregateRows
//
// # Error Handling
//
// Cell- and row-level failures are recovered locally and surfaced as
// rejection counters; sheet-level schema failures skip the sheet; an upload
// with zero valid records fails with ErrEmptyResult. See errors.go for the
// sentinel kinds.
//
// All aggregation functions are pure reads and safe to run concurrently
// against the same RecordSet.
package dataprocessing
