package notes

import "time"

// Tag classifies a note. The set is closed; anything outside it is rejected
// at the HTTP boundary.
type Tag string

const (
	TagWork      Tag = "Work"
	TagPersonal  Tag = "Personal"
	TagMeeting   Tag = "Meeting"
	TagShopping  Tag = "Shopping"
	TagIdeas     Tag = "Ideas"
	TagTravel    Tag = "Travel"
	TagFinance   Tag = "Finance"
	TagHealth    Tag = "Health"
	TagImportant Tag = "Important"
	TagTodo      Tag = "Todo"
)

// DefaultTag is applied when a note is created without an explicit tag.
const DefaultTag = TagTodo

var validTags = map[Tag]struct{}{
	TagWork:      {},
	TagPersonal:  {},
	TagMeeting:   {},
	TagShopping:  {},
	TagIdeas:     {},
	TagTravel:    {},
	TagFinance:   {},
	TagHealth:    {},
	TagImportant: {},
	TagTodo:      {},
}

// ValidTag reports whether t belongs to the closed tag set.
func ValidTag(t Tag) bool {
	_, ok := validTags[t]
	return ok
}

// Note is a user-owned content item.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
