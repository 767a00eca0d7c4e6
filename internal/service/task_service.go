package service

import (
	"context"
	"errors"
	"strings"
	"time"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrMissingFields   = errors.New("name, fecha, hora and horas are required")
	ErrInvalidSchedule = dom.ErrInvalidSchedule
)

type TaskService struct {
	repo repo.TaskRepo
	loc  *time.Location
}

// NewTaskService creates a TaskService. Dates are read in loc (time.Local if nil).
func NewTaskService(r repo.TaskRepo, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{repo: r, loc: loc}
}

func (s *TaskService) Create(ctx context.Context, name, desc, fecha, hora string, horas int) (dom.Task, error) {
	t := dom.Task{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(desc),
		Fecha:       strings.TrimSpace(fecha),
		Hora:        strings.TrimSpace(hora),
		Horas:       horas,
	}
	if t.Name == "" || t.Fecha == "" || t.Hora == "" || t.Horas == 0 {
		return dom.Task{}, ErrMissingFields
	}
	if err := t.Reschedule(s.loc); err != nil {
		return dom.Task{}, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) List(ctx context.Context) ([]dom.Task, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []dom.Task{}
	}
	return list, nil
}

func (s *TaskService) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update merges patch into the stored task. Start and End move only when
// the patch carries fecha, hora and horas together.
func (s *TaskService) Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Task{}, err
	}
	if patch.Horas != nil && (*patch.Horas < 1 || *patch.Horas > dom.MaxHoras) {
		return dom.Task{}, ErrInvalidSchedule
	}
	updated := existing
	updated.Apply(patch)
	if patch.HasSchedule() {
		if err := updated.Reschedule(s.loc); err != nil {
			return dom.Task{}, err
		}
	}
	t, err := s.repo.Update(ctx, id, updated)
	if err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Delete is idempotent: removing an absent id succeeds.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
