package domain

// CreateTaskCommand carries the user-supplied fields for a new task.
// Identity and timestamps are never part of the command; the use case
// fills them in.
type CreateTaskCommand struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=3,max=1000"`
}

// UpdateTaskCommand overwrites title and description of an existing task.
type UpdateTaskCommand struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=3,max=1000"`
}

// UpdateStatusCommand moves a task to a new lifecycle state.
type UpdateStatusCommand struct {
	Status TaskStatus `json:"status" validate:"required,taskstatus"`
}
