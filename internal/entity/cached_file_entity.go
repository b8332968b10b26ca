package entity

import (
	"strings"
	"time"
)

// Kind is the category of a course document. Each kind lives in its own
// subfolder of a subject and has its own file numbering convention.
type Kind string

const (
	KindAssignment Kind = "assignment"
	KindNote       Kind = "note"
)

// SubfolderName returns the Drive folder that holds files of this kind
// inside a subject folder. The casing mirrors the shared Drive layout.
func (k Kind) SubfolderName() string {
	if k == KindNote {
		return "Notes"
	}
	return "assignments"
}

// CacheKey identifies one course document. Group and Subject are
// upper-cased on construction; equality is on the normalized form.
type CacheKey struct {
	Year    string
	Group   string
	Subject string
	Kind    Kind
	Number  int
}

func NewCacheKey(year, group, subject string, kind Kind, number int) CacheKey {
	return CacheKey{
		Year:    year,
		Group:   strings.ToUpper(group),
		Subject: strings.ToUpper(subject),
		Kind:    kind,
		Number:  number,
	}
}

// CachedFile maps a CacheKey to the Telegram file_id obtained when the
// document was last delivered. Resending by file_id skips the Drive
// download entirely.
type CachedFile struct {
	Id        uint
	Key       CacheKey
	Handle    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
