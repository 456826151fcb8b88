package notes

import (
	"context"
	"time"
)

// ListQuery describes a page of a user's notes. Zero values mean "no filter".
type ListQuery struct {
	Page    int
	PerPage int
	Tag     Tag
	Search  string
}

// ListResult is one page of notes plus the totals the client needs to page.
type ListResult struct {
	Page       int
	PerPage    int
	TotalNotes int
	TotalPages int
	Notes      []Note
}

// CreateInput carries the fields of a new note.
type CreateInput struct {
	UserID  string
	Title   string
	Content string
	Tag     Tag
	Now     time.Time
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title   *string
	Content *string
	Tag     *Tag
	Now     time.Time
}

// Store persists notes. All operations are scoped by the owning user;
// implementations return ErrNoteNotFound for notes owned by someone else.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Note, error)
	Get(ctx context.Context, userID, noteID string) (Note, error)
	List(ctx context.Context, userID string, q ListQuery) (ListResult, error)
	Update(ctx context.Context, userID, noteID string, in UpdateInput) (Note, error)
	// Delete removes the note and returns it as it was.
	Delete(ctx context.Context, userID, noteID string) (Note, error)
}
