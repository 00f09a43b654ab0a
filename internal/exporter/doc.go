// Package exporter writes pipeline outputs.
//
// Encode produces plain comma separated files with a header row.
// AtomicSet stages a group of files next to their destinations and publishes
// them together with renames, so a failed run or a failed publish leaves the
// previous outputs in place. The stats renderers turn aggregated season rows into CSV records,
// and WriteWorkbook exports the same tables as an Excel workbook.
package exporter
