package domain

// ChangeType describes what happened to the dataset file on disk.
type ChangeType string

const (
	// ChangeUpdated means the file was written or replaced.
	ChangeUpdated ChangeType = "updated"

	// ChangeDeleted means the file was removed or renamed away.
	ChangeDeleted ChangeType = "deleted"
)

// DatasetChange reports that the dataset behind a built index changed.
// The index is never rebuilt in place; a change only marks it stale.
type DatasetChange struct {
	Path string
	Type ChangeType
}
