package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

// Task is the domain entity for a scheduled to-do item.
// Start and End are derived from Fecha, Hora and Horas.
type Task struct {
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

// TaskPatch carries the fields of a partial update. nil = keep.
type TaskPatch struct {
	Name        *string
	Description *string
	Fecha       *string
	Hora        *string
	Horas       *int
	Completed   *bool
}

// HasSchedule reports whether the patch carries a full date, time and duration.
func (p TaskPatch) HasSchedule() bool {
	return p.Fecha != nil && p.Hora != nil && p.Horas != nil
}

// DateLayout is the layout of Task.Fecha.
const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// MaxHoras is the longest duration that still fits in a time.Duration.
const MaxHoras = int(math.MaxInt64 / int64(time.Hour))

var ErrInvalidSchedule = errors.New("invalid date, time or duration")

// Schedule returns the window that starts at fecha+hora in loc and lasts horas hours.
func Schedule(fecha, hora string, horas int, loc *time.Location) (start, end time.Time, err error) {
	if horas < 1 || horas > MaxHoras {
		return time.Time{}, time.Time{}, ErrInvalidSchedule
	}
	if loc == nil {
		loc = time.Local
	}
	fecha = strings.TrimSpace(fecha)
	hora = strings.TrimSpace(hora)
	for _, layout := range clockLayouts {
		start, err = time.ParseInLocation(DateLayout+"T"+layout, fecha+"T"+hora, loc)
		if err != nil {
			continue
		}
		end = start.Add(time.Duration(horas) * time.Hour)
		if !end.After(start) {
			return time.Time{}, time.Time{}, ErrInvalidSchedule
		}
		return start, end, nil
	}
	return time.Time{}, time.Time{}, ErrInvalidSchedule
}

// Reschedule recomputes Start and End from the task's own fields.
func (t *Task) Reschedule(loc *time.Location) error {
	start, end, err := Schedule(t.Fecha, t.Hora, t.Horas, loc)
	if err != nil {
		return err
	}
	t.Start, t.End = start, end
	return nil
}

// Apply merges the patch into t. Start and End are left alone.
func (t *Task) Apply(p TaskPatch) {
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Fecha != nil {
		t.Fecha = strings.TrimSpace(*p.Fecha)
	}
	if p.Hora != nil {
		t.Hora = strings.TrimSpace(*p.Hora)
	}
	if p.Horas != nil {
		t.Horas = *p.Horas
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
