// Package exporter renders overtime rollups into downloadable artifacts: a
// multi-sheet xlsx summary workbook and a directory of per-grouping CSV
// files. Both share the same column layout so a consumer can switch formats
// without remapping.
package exporter
