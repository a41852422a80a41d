package dtos

import "todolist/internal/model"

// TaskResponse is one row of the task table as rendered to clients.
type TaskResponse struct {
	No            int    `json:"no"`
	Title         string `json:"title"`
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	PriorityLevel string `json:"priority_level"`
	DueDate       string `json:"due_date"`
	Completed     bool   `json:"completed"`
	Status        string `json:"status"`
}

// FromModel builds the row for the task at zero-based position i.
func FromModel(i int, t *model.Task) TaskResponse {
	c := t.Category()
	return TaskResponse{
		No:            i + 1,
		Title:         t.Title(),
		Category:      string(c),
		CategoryLabel: c.Label(),
		PriorityLevel: c.Level(),
		DueDate:       t.DueDate(),
		Completed:     t.Completed(),
		Status:        t.Status(),
	}
}

// FromList builds the rows for a whole list, numbered from 1.
func FromList(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, FromModel(i, &tasks[i]))
	}
	return out
}
