// internal/app/system/csvutil/limits.go
package csvutil

// Row limit for CSV exports. The store query is capped before the writer
// runs, so one oversized assignment cannot stream an unbounded response.
const MaxExportRows = 20000
