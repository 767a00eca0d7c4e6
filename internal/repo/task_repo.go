package repo

import (
	"context"
	"errors"
	"sync"

	dom "Tasker/internal/domain"
)

// ErrNoRows is returned when no task matches the id.
var ErrNoRows = errors.New("repo: no rows in result set")

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	List(ctx context.Context) ([]dom.Task, error)
	Update(ctx context.Context, id int64, t dom.Task) (dom.Task, error)
	Delete(ctx context.Context, id int64) error
}

// MemTaskRepo keeps tasks in process memory, in insertion order.
type MemTaskRepo struct {
	mu    sync.RWMutex
	tasks []dom.Task
}

func NewMemTaskRepo() *MemTaskRepo {
	return &MemTaskRepo{}
}

// Create stores t under the next id: max(existing)+1, or 1 when empty.
func (r *MemTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID()
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *MemTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return dom.Task{}, ErrNoRows
	}
	return r.tasks[i], nil
}

func (r *MemTaskRepo) List(ctx context.Context) ([]dom.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]dom.Task, len(r.tasks))
	copy(list, r.tasks)
	return list, nil
}

// Update replaces the stored task. The id of t is ignored.
func (r *MemTaskRepo) Update(ctx context.Context, id int64, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return dom.Task{}, ErrNoRows
	}
	t.ID = id
	r.tasks[i] = t
	return t, nil
}

// Delete removes the task if present. Absent ids are not an error.
func (r *MemTaskRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.tasks[:0]
	for _, t := range r.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	r.tasks = kept
	return nil
}

func (r *MemTaskRepo) nextID() int64 {
	var max int64
	for _, t := range r.tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func (r *MemTaskRepo) indexOf(id int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
