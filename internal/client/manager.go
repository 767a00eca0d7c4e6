package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"Tasker/internal/cache"
	"Tasker/internal/calendar"
	dom "Tasker/internal/domain"
	"Tasker/internal/dto"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

var (
	ErrValidation = errors.New("please fill in name, fecha, hora and horas")
	ErrNotFound   = errors.New("task not found")
)

// Filter selects a view of the task list.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter accepts all, completed or pending.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterCompleted, FilterPending:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// Match reports whether t belongs to the view.
func (f Filter) Match(t dom.Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Options configures a Manager. Zero values get defaults.
type Options struct {
	Logger   *log.Logger
	Location *time.Location
	Now      func() time.Time
	// OnChange receives the calendar projection after every list change.
	OnChange func([]calendar.Event)
}

// Manager holds the client's view of the task list. Every API failure
// degrades to the local mirror; local and server state are never reconciled.
type Manager struct {
	api      API
	mirror   cache.Mirror
	logger   *log.Logger
	loc      *time.Location
	now      func() time.Time
	onChange func([]calendar.Event)
	validate *validator.Validate
	sf       singleflight.Group

	// writeMu serializes list changes from the API call through commit.
	// OnChange runs while it is held and must not call back into a mutating method.
	writeMu sync.Mutex

	mu     sync.Mutex
	tasks  []dom.Task
	events []calendar.Event
}

func NewManager(api API, mirror cache.Mirror, opts Options) *Manager {
	m := &Manager{
		api:      api,
		mirror:   mirror,
		logger:   opts.Logger,
		loc:      opts.Location,
		now:      opts.Now,
		onChange: opts.OnChange,
		validate: validator.New(),
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Load refreshes the list from the API and overwrites the mirror. When the
// API fails the mirror is used instead. Concurrent calls share one fetch.
func (m *Manager) Load(ctx context.Context) ([]dom.Task, error) {
	v, err, _ := m.sf.Do("load", func() (interface{}, error) {
		m.writeMu.Lock()
		defer m.writeMu.Unlock()

		list, err := m.api.List(ctx)
		if err != nil {
			m.logger.Warn("fetching tasks failed, using local copy", "err", err)
			list = m.loadMirror(ctx)
		} else {
			m.saveMirror(ctx, list)
		}
		if list == nil {
			list = []dom.Task{}
		}
		m.replace(list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneTasks(v.([]dom.Task)), nil
}

// Create validates req and sends it to the API. If the API is unreachable the
// task is kept locally under an id taken from the client clock.
func (m *Manager) Create(ctx context.Context, req dto.CreateTaskRequest) (dom.Task, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Fecha = strings.TrimSpace(req.Fecha)
	req.Hora = strings.TrimSpace(req.Hora)
	if err := m.validate.Struct(req); err != nil {
		return dom.Task{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	t, err := m.api.Create(ctx, req)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
			return dom.Task{}, fmt.Errorf("%w: %s", ErrValidation, apiErr.Message)
		}
		m.logger.Warn("creating task via API failed, keeping it locally", "err", err)
		t = dom.Task{
			ID:          m.now().UnixMilli(),
			Name:        req.Name,
			Description: req.Description,
			Fecha:       req.Fecha,
			Hora:        req.Hora,
			Horas:       req.Horas,
		}
		if err := t.Reschedule(m.loc); err != nil {
			m.logger.Warn("local task has no valid schedule", "id", t.ID, "err", err)
		}
	}

	m.mu.Lock()
	list := append(cloneTasks(m.tasks), t)
	m.mu.Unlock()
	m.commit(ctx, list)
	return t, nil
}

// Delete removes id from the API (best effort) and from the local list.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.api.Delete(ctx, id); err != nil {
		m.logger.Warn("deleting task via API failed, removing it locally", "id", id, "err", err)
	}

	m.mu.Lock()
	list := make([]dom.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.ID != id {
			list = append(list, t)
		}
	}
	m.mu.Unlock()
	m.commit(ctx, list)
	return nil
}

// SetCompleted marks id done or pending. On API failure the flag is flipped locally.
func (m *Manager) SetCompleted(ctx context.Context, id int64, done bool) (dom.Task, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	i := indexOf(m.tasks, id)
	m.mu.Unlock()
	if i < 0 {
		return dom.Task{}, ErrNotFound
	}

	t, err := m.api.Update(ctx, id, dto.UpdateTaskRequest{Completed: &done})
	if err != nil {
		m.logger.Warn("updating task via API failed, changing it locally", "id", id, "err", err)
	}

	m.mu.Lock()
	list := cloneTasks(m.tasks)
	m.mu.Unlock()
	i = indexOf(list, id)
	if i < 0 {
		return dom.Task{}, ErrNotFound
	}
	if err != nil {
		list[i].Completed = done
		t = list[i]
	} else {
		list[i] = t
	}
	m.commit(ctx, list)
	return t, nil
}

// Tasks returns the current list narrowed to f.
func (m *Manager) Tasks(f Filter) []dom.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dom.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Events returns the calendar projection of the current list.
func (m *Manager) Events() []calendar.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]calendar.Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *Manager) commit(ctx context.Context, list []dom.Task) {
	m.saveMirror(ctx, list)
	m.replace(list)
}

// replace swaps in list, recomputes the projection and notifies the listener.
func (m *Manager) replace(list []dom.Task) {
	events, skipped := calendar.Project(list, m.loc)
	for _, s := range skipped {
		m.logger.Warn("task left off the calendar", "id", s.Task.ID, "name", s.Task.Name, "err", s.Err)
	}

	m.mu.Lock()
	m.tasks = cloneTasks(list)
	m.events = events
	onChange := m.onChange
	m.mu.Unlock()

	m.logger.Debug("calendar events updated", "count", len(events))
	if onChange != nil {
		out := make([]calendar.Event, len(events))
		copy(out, events)
		onChange(out)
	}
}

func (m *Manager) loadMirror(ctx context.Context) []dom.Task {
	list, err := m.mirror.Load(ctx)
	if err != nil {
		m.logger.Error("reading local copy failed", "err", err)
		return []dom.Task{}
	}
	return list
}

func (m *Manager) saveMirror(ctx context.Context, list []dom.Task) {
	if err := m.mirror.Save(ctx, list); err != nil {
		m.logger.Error("writing local copy failed", "err", err)
	}
}

func indexOf(list []dom.Task, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(list []dom.Task) []dom.Task {
	out := make([]dom.Task, len(list))
	copy(out, list)
	return out
}
