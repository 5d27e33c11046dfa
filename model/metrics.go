// model/metrics.go
package model

// OperationStats is the aggregated timing view for one named operation.
type OperationStats struct {
	Operation string  `json:"operation"`
	Count     int64   `json:"count"`
	TotalMs   float64 `json:"total_ms"`
	AvgMs     float64 `json:"avg_ms"`
	MinMs     float64 `json:"min_ms"`
	MaxMs     float64 `json:"max_ms"`
}
