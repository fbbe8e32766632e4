package recommend

const (
	// CleanupNote is printed for buckets above the inspector's size threshold.
	CleanupNote = "Cleanup Recommendation: Consider archiving or deleting old data to reduce costs."
	// ArchivalNote is the inspector's archival message.
	ArchivalNote = "Archival Recommendation: Move data to Glacier or Deep Archive for cost savings."
)

const (
	inspectorCleanupMinGiB = 50
	inspectorArchiveMinGiB = 100
	inspectorArchiveIdle   = 20
)

// InspectorNote returns the inspector's note for a bucket of sizeGiB
// (binary gigabytes) unused for daysUnused days, or "" when none applies.
// daysUnused is nil when it could not be determined.
//
// Order matters: every size above 50 takes the cleanup branch first, so the
// archival branch never fires.
func InspectorNote(sizeGiB float64, daysUnused *int) string {
	if sizeGiB > inspectorCleanupMinGiB {
		return CleanupNote
	} else if sizeGiB > inspectorArchiveMinGiB && daysUnused != nil && *daysUnused > inspectorArchiveIdle {
		return ArchivalNote
	}
	return ""
}
