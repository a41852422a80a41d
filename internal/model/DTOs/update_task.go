package dtos

import "todolist/internal/model"

// UpdateTaskDTO carries the replacement values for an edited task. The task
// is rebuilt from these, so all of them are required.
type UpdateTaskDTO struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required,oneof=plain priority"`
	DueDate  string `json:"due_date" binding:"required"`
}

// IsPriority reports whether the replacement task is a priority one.
func (d *UpdateTaskDTO) IsPriority() bool {
	return model.Category(d.Category) == model.CategoryPriority
}
