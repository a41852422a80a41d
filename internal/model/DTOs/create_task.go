package dtos

import "todolist/internal/model"

// CreateTaskDTO mirrors the add-task form: every field must be filled in.
type CreateTaskDTO struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required,oneof=plain priority"`
	DueDate  string `json:"due_date" binding:"required"`
}

// IsPriority reports whether the requested category is the priority one.
func (d *CreateTaskDTO) IsPriority() bool {
	return model.Category(d.Category) == model.CategoryPriority
}
