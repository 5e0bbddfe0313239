package shared

import (
	"time"
)

// SnapshotFilter provides filtering options for listing archived snapshots
type SnapshotFilter struct {
	BrandName string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}
