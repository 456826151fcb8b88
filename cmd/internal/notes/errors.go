package notes

import "errors"

// ErrNoteNotFound covers both a genuinely missing note and a note owned by a
// different user; callers must not be able to tell the two apart.
var ErrNoteNotFound = errors.New("note not found")
