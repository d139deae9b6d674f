package planning

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/learnpath/pkg/domain/catalog"
)

// LinkType names the kind of catalog item a task refers to.
type LinkType string

const (
	LinkNone     LinkType = ""
	LinkTrack    LinkType = "track"
	LinkResource LinkType = "resource"
)

// IsValid returns true for the known link types, including none.
func (l LinkType) IsValid() bool {
	switch l {
	case LinkNone, LinkTrack, LinkResource:
		return true
	default:
		return false
	}
}

// Task is a user-authored study to-do.
type Task struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Stage       catalog.Stage `json:"stage"`
	DueDate     string        `json:"dueDate"` // YYYY-MM-DD or empty
	Done        bool          `json:"done"`
	LinkedType  LinkType      `json:"linkedType,omitempty"`
	LinkedID    string        `json:"linkedId,omitempty"`
	Note        string        `json:"note,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt"`
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}

// Due parses the due date in loc. ok is false when the task has none or
// the stored value is not a date.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	return parseDate(t.DueDate, loc)
}

// Draft carries the fields of a task to be created.
type Draft struct {
	ID         string
	Title      string
	Stage      catalog.Stage
	DueDate    string
	Done       bool
	LinkedType LinkType
	LinkedID   string
	Note       string
}

// Validate checks the required fields. linkedType and linkedId are not
// required to come in pairs.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !d.Stage.IsValid() {
		return &ValidationError{Field: "stage", Reason: "must be cloud, docker or k8s"}
	}
	if err := validateDueDate(d.DueDate); err != nil {
		return err
	}
	if !d.LinkedType.IsValid() {
		return &ValidationError{Field: "linkedType", Reason: "must be track or resource"}
	}
	return nil
}

// DraftFromItem prefills a draft from a catalog item.
func DraftFromItem(item catalog.Item, itemType catalog.ItemType) Draft {
	return Draft{
		Title:      item.Title,
		Stage:      item.Stage(),
		LinkedType: LinkType(itemType),
		LinkedID:   item.ID,
	}
}

// Changes is a partial edit; nil fields are left untouched.
type Changes struct {
	Title      *string
	Stage      *catalog.Stage
	DueDate    *string
	Done       *bool
	LinkedType *LinkType
	LinkedID   *string
	Note       *string
}

// Validate checks only the fields being changed.
func (c Changes) Validate() error {
	if c.Title != nil && strings.TrimSpace(*c.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if c.Stage != nil && !c.Stage.IsValid() {
		return &ValidationError{Field: "stage", Reason: "must be cloud, docker or k8s"}
	}
	if c.DueDate != nil {
		if err := validateDueDate(*c.DueDate); err != nil {
			return err
		}
	}
	if c.LinkedType != nil && !c.LinkedType.IsValid() {
		return &ValidationError{Field: "linkedType", Reason: "must be track or resource"}
	}
	return nil
}

// IsEmpty reports whether the edit changes nothing.
func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Stage == nil && c.DueDate == nil && c.Done == nil &&
		c.LinkedType == nil && c.LinkedID == nil && c.Note == nil
}

func validateDueDate(s string) error {
	if s == "" {
		return nil
	}
	if _, ok := parseDate(s, time.UTC); !ok {
		return &ValidationError{Field: "dueDate", Reason: "must be a YYYY-MM-DD date"}
	}
	return nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp, keeping only
// the date part.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return d, true
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := ts.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
