package models

import "time"

// Revision represents a version of a page's content. Revisions are
// append-only; revision ids come from a single store-wide sequence.
type Revision struct {
	ID        int64
	PageID    int64
	Content   string
	Message   string
	CreatorID *int64
	Creator   string
	CreatorIP *string
	Created   time.Time
	Modified  time.Time
}
