package dto

import (
	"time"

	dom "Tasker/internal/domain"
)

// CreateTaskRequest is the JSON body for POST /api/tasks.
// The validate tags are checked by the client before sending.
type CreateTaskRequest struct {
	Name        string `json:"name" binding:"required" validate:"required"`
	Description string `json:"description"`
	Fecha       string `json:"fecha" binding:"required" validate:"required,datetime=2006-01-02"`
	Hora        string `json:"hora" binding:"required" validate:"required"`
	Horas       int    `json:"horas" binding:"required,min=1,max=2562047" validate:"required,min=1,max=2562047"`
}

// UpdateTaskRequest is the JSON body for PUT /api/tasks/{id}. Absent fields are kept.
type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Fecha       *string `json:"fecha,omitempty"`
	Hora        *string `json:"hora,omitempty"`
	Horas       *int    `json:"horas,omitempty" binding:"omitempty,min=1,max=2562047"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Patch converts the request into a domain patch.
func (r UpdateTaskRequest) Patch() dom.TaskPatch {
	return dom.TaskPatch{
		Name:        r.Name,
		Description: r.Description,
		Fecha:       r.Fecha,
		Hora:        r.Hora,
		Horas:       r.Horas,
		Completed:   r.Completed,
	}
}

type TaskResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Fecha       string    `json:"fecha"`
	Hora        string    `json:"hora"`
	Horas       int       `json:"horas"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Completed   bool      `json:"completed"`
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
}

func TaskToResponse(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Fecha:       t.Fecha,
		Hora:        t.Hora,
		Horas:       t.Horas,
		Start:       t.Start,
		End:         t.End,
		Completed:   t.Completed,
	}
}

func TasksToResponses(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = TaskToResponse(list[i])
	}
	return out
}
