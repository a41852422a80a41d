package model

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultDueDate is stored when a task is given no due date.
const DefaultDueDate = "2000-01-01"

var dueDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Category is fixed when a task is constructed. Editing a task to another
// category builds a new task instead of mutating this field.
type Category string

const (
	CategoryPlain    Category = "plain"
	CategoryPriority Category = "priority"
)

// CategoryFor maps the stored isPriority flag to its category.
func CategoryFor(isPriority bool) Category {
	if isPriority {
		return CategoryPriority
	}
	return CategoryPlain
}

// ParseCategory accepts exactly "plain" or "priority".
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryPlain, CategoryPriority:
		return Category(s), nil
	}
	return "", newValidationError("category", `category must be "plain" or "priority"`)
}

// Label is the display name of the category.
func (c Category) Label() string {
	if c == CategoryPriority {
		return "Priority"
	}
	return "Plain"
}

// Level reports the priority level shown next to a task.
func (c Category) Level() string {
	if c == CategoryPriority {
		return "HIGH"
	}
	return "NORMAL"
}

// Task is a single to-do item. Fields change only through the setters, which
// enforce the title and due date rules.
type Task struct {
	title     string
	dueDate   string
	completed bool
	category  Category
}

// Record is the plain projection of a task used for persistence. JSON keys
// match the stored blob format.
type Record struct {
	Title      string `json:"title"`
	DueDate    string `json:"dueDate"`
	Completed  bool   `json:"completed"`
	IsPriority bool   `json:"isPriority"`
}

// NewTask builds a task of the given category. An empty dueDate falls back to
// DefaultDueDate.
func NewTask(category Category, title, dueDate string) (*Task, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, err
	}
	t := &Task{category: category}
	if err := t.SetTitle(title); err != nil {
		return nil, err
	}
	if err := t.SetDueDate(dueDate); err != nil {
		return nil, err
	}
	return t, nil
}

// FromRecord rebuilds a task from its stored projection, re-applying the
// completion flag.
func FromRecord(r Record) (*Task, error) {
	t, err := NewTask(CategoryFor(r.IsPriority), r.Title, r.DueDate)
	if err != nil {
		return nil, err
	}
	if r.Completed {
		t.MarkComplete()
	}
	return t, nil
}

func (t *Task) Title() string      { return t.title }
func (t *Task) DueDate() string    { return t.dueDate }
func (t *Task) Completed() bool    { return t.completed }
func (t *Task) Category() Category { return t.category }
func (t *Task) IsPriority() bool   { return t.category == CategoryPriority }

// SetTitle rejects blank titles. Non-blank values are stored verbatim.
func (t *Task) SetTitle(value string) error {
	if strings.TrimSpace(value) == "" {
		return newValidationError("title", "title must not be empty")
	}
	t.title = value
	return nil
}

// SetDueDate accepts YYYY-MM-DD (shape only, no calendar check) or an empty
// value, which resets to DefaultDueDate.
func (t *Task) SetDueDate(value string) error {
	if value == "" {
		t.dueDate = DefaultDueDate
		return nil
	}
	if !dueDatePattern.MatchString(value) {
		return newValidationError("due_date", "due date must be in YYYY-MM-DD format")
	}
	t.dueDate = value
	return nil
}

// MarkComplete is idempotent and returns a confirmation message.
func (t *Task) MarkComplete() string {
	t.completed = true
	return fmt.Sprintf("%s has been completed.", t.title)
}

// Status is the human readable completion label.
func (t *Task) Status() string {
	if t.completed {
		return "Completed"
	}
	return "Not completed"
}

// Serialize returns the plain record stored for this task.
func (t *Task) Serialize() Record {
	return Record{
		Title:      t.title,
		DueDate:    t.dueDate,
		Completed:  t.completed,
		IsPriority: t.IsPriority(),
	}
}
