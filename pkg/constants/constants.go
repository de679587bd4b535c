// Package constants provides shared constants used throughout the crosswalk
// codebase. This includes file permissions, the plan directory layout, and
// data format values that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Plan output layout constants define the directory structure a run writes
const (
	// DefaultPlanDir is the default root directory for plan output
	DefaultPlanDir = "plan"

	// NewRecordsDir holds per-type CSVs of entities to create
	NewRecordsDir = "new"

	// UpdatesDir holds per-type CSVs of entities to update
	UpdatesDir = "updates"

	// AssociationsAddDir holds per-edge-type CSVs of associations to add
	AssociationsAddDir = "associations/add"

	// AssociationsRemoveDir holds per-edge-type CSVs of associations to remove
	AssociationsRemoveDir = "associations/remove"

	// SummaryFile is the YAML run summary written at the plan root
	SummaryFile = "summary.yaml"
)

// Data format constants
const (
	// PackedIDSeparator is the delimiter inside packed multi-valued
	// association columns in destination exports
	PackedIDSeparator = ";"

	// RecordIDColumn is the destination identifier column in CRM exports
	RecordIDColumn = "Record ID"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatFilename is the format used in generated filenames
	TimeFormatFilename = "20060102-150405"
)
