// Package calendar turns tasks into events for a calendar view.
package calendar

import (
	"errors"
	"strconv"
	"strings"
	"time"

	dom "Tasker/internal/domain"

	gcal "google.golang.org/api/calendar/v3"
)

// UntitledTitle is shown for tasks without a name.
const UntitledTitle = "Untitled task"

// TaskIDProperty is the private extended property that links a Google event back to its task.
const TaskIDProperty = "task_id"

var (
	ErrMissingDateTime = errors.New("task has no fecha or hora")
	ErrInvalidDateTime = errors.New("task has an invalid fecha or hora")
)

// Event is the record the calendar view consumes.
type Event struct {
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	AllDay   bool      `json:"allDay"`
	Resource dom.Task  `json:"resource"`
}

// FromTask builds the event for t from its fecha, hora and horas.
// A non-positive horas counts as one hour.
func FromTask(t dom.Task, loc *time.Location) (Event, error) {
	if strings.TrimSpace(t.Fecha) == "" || strings.TrimSpace(t.Hora) == "" {
		return Event{}, ErrMissingDateTime
	}
	horas := t.Horas
	if horas < 1 {
		horas = 1
	}
	start, end, err := dom.Schedule(t.Fecha, t.Hora, horas, loc)
	if err != nil {
		return Event{}, ErrInvalidDateTime
	}
	title := strings.TrimSpace(t.Name)
	if title == "" {
		title = UntitledTitle
	}
	return Event{Title: title, Start: start, End: end, Resource: t}, nil
}

// Skipped describes a task left out of a projection.
type Skipped struct {
	Task dom.Task
	Err  error
}

// Project maps every schedulable task to an event, in list order.
// Tasks without a usable date and time are returned in skipped.
func Project(list []dom.Task, loc *time.Location) (events []Event, skipped []Skipped) {
	events = make([]Event, 0, len(list))
	for _, t := range list {
		ev, err := FromTask(t, loc)
		if err != nil {
			skipped = append(skipped, Skipped{Task: t, Err: err})
			continue
		}
		events = append(events, ev)
	}
	return events, skipped
}

// ToGoogleEvent converts ev into a Google Calendar event resource.
func ToGoogleEvent(ev Event) *gcal.Event {
	out := &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Resource.Description,
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{TaskIDProperty: strconv.FormatInt(ev.Resource.ID, 10)},
		},
	}
	if ev.AllDay {
		out.Start = &gcal.EventDateTime{Date: ev.Start.Format(dom.DateLayout)}
		out.End = &gcal.EventDateTime{Date: ev.End.Format(dom.DateLayout)}
	} else {
		out.Start = &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)}
		out.End = &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)}
	}
	if ev.Resource.Completed {
		out.Transparency = "transparent"
	}
	return out
}
