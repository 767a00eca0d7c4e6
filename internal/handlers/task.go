package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Tasker/internal/dto"
	"Tasker/internal/service"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type TaskHandler struct {
	svc    *service.TaskService
	logger *log.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *log.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, bindingMessage(err))
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Name, req.Description, req.Fecha, req.Hora, req.Horas)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) || errors.Is(err, service.ErrInvalidSchedule) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create task", "err", err)
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Debug("task created", "id", t.ID, "start", t.Start, "end", t.End)
	c.JSON(http.StatusCreated, dto.TaskToResponse(t))
}

// List godoc
// @Summary      List all tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {array}   dto.TaskResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.TasksToResponses(list))
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		abort(c, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			abort(c, http.StatusNotFound, err.Error())
			return
		}
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t))
}

// Update godoc
// @Summary      Update a task
// @Description  Merges the given fields. start/end are recomputed only when fecha, hora and horas are all sent.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		abort(c, http.StatusNotFound, service.ErrNotFound.Error())
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, bindingMessage(err))
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req.Patch())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			abort(c, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrInvalidSchedule) {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("update task", "id", id, "err", err)
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.TaskToResponse(t))
}

// Delete godoc
// @Summary      Delete a task
// @Description  Always answers 204, also for ids that do not exist.
// @Tags         tasks
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete task", "id", id, "err", err)
		abort(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID reads a numeric path parameter. Callers decide how a bad id is reported.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// bindingMessage turns a bind error into the message sent to the caller.
// Missing fields and out-of-range values get the service's wording.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return service.ErrMissingFields.Error()
		}
	}
	return service.ErrInvalidSchedule.Error()
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: msg})
}
