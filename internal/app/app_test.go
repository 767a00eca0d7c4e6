package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Tasker/internal/config"
	"Tasker/internal/dto"
	"Tasker/internal/logging"

	"github.com/gin-gonic/gin"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Config{
		App:   config.AppConfig{Env: "test", Version: "v-test"},
		Tasks: config.TasksConfig{TZ: "UTC"},
	}
	a, err := New(cfg, logging.NewWithWriter(io.Discard, config.LogConfig{}, "test"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestCreateAndList(t *testing.T) {
	h := newTestApp(t).Router()

	w := doJSON(t, h, http.MethodPost, "/api/tasks",
		`{"name":"Write report","description":"Q1","fecha":"2024-01-01","hora":"09:00","horas":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body)
	}
	created := decode[dto.TaskResponse](t, w)
	if created.ID != 1 || created.Completed {
		t.Errorf("unexpected task %+v", created)
	}
	if got := created.End.Sub(created.Start); got != 2*time.Hour {
		t.Errorf("end - start = %v, want 2h", got)
	}
	if !created.Start.Equal(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", created.Start)
	}

	w = doJSON(t, h, http.MethodGet, "/api/tasks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	list := decode[[]dto.TaskResponse](t, w)
	if len(list) != 1 || list[0].Name != "Write report" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestListEmptyArray(t *testing.T) {
	w := doJSON(t, newTestApp(t).Router(), http.MethodGet, "/api/tasks", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected [], got %s", w.Body)
	}
}

func TestCreateMissingFields(t *testing.T) {
	h := newTestApp(t).Router()
	bodies := []string{
		`{"fecha":"2024-01-01","hora":"09:00","horas":1}`,
		`{"name":"a","hora":"09:00","horas":1}`,
		`{"name":"a","fecha":"2024-01-01","horas":1}`,
		`{"name":"a","fecha":"2024-01-01","hora":"09:00"}`,
		`{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":0}`,
	}
	for _, b := range bodies {
		w := doJSON(t, h, http.MethodPost, "/api/tasks", b)
		if w.Code != http.StatusBadRequest {
			t.Errorf("POST %s: status = %d, want 400", b, w.Code)
			continue
		}
		if msg := decode[dto.ErrorResponse](t, w).Message; msg != "name, fecha, hora and horas are required" {
			t.Errorf("POST %s: message = %q", b, msg)
		}
	}
	list := decode[[]dto.TaskResponse](t, doJSON(t, h, http.MethodGet, "/api/tasks", ""))
	if len(list) != 0 {
		t.Errorf("store changed on bad input: %+v", list)
	}
}

func TestCreateInvalidDate(t *testing.T) {
	w := doJSON(t, newTestApp(t).Router(), http.MethodPost, "/api/tasks",
		`{"name":"a","fecha":"2024-02-30","hora":"09:00","horas":1}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateOutOfRangeHours(t *testing.T) {
	h := newTestApp(t).Router()
	for _, horas := range []string{"-1", "3000000"} {
		w := doJSON(t, h, http.MethodPost, "/api/tasks",
			`{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":`+horas+`}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("horas=%s: status = %d, want 400", horas, w.Code)
			continue
		}
		if msg := decode[dto.ErrorResponse](t, w).Message; msg != "invalid date, time or duration" {
			t.Errorf("horas=%s: message = %q", horas, msg)
		}
	}
	list := decode[[]dto.TaskResponse](t, doJSON(t, h, http.MethodGet, "/api/tasks", ""))
	if len(list) != 0 {
		t.Errorf("store changed on bad input: %+v", list)
	}
}

func TestUpdateOutOfRangeHours(t *testing.T) {
	h := newTestApp(t).Router()
	doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":1}`)
	bodies := []string{
		`{"horas":-1}`,
		`{"fecha":"2024-01-01","hora":"09:00","horas":3000000}`,
	}
	for _, b := range bodies {
		w := doJSON(t, h, http.MethodPut, "/api/tasks/1", b)
		if w.Code != http.StatusBadRequest {
			t.Errorf("PUT %s: status = %d, want 400", b, w.Code)
			continue
		}
		if msg := decode[dto.ErrorResponse](t, w).Message; msg != "invalid date, time or duration" {
			t.Errorf("PUT %s: message = %q", b, msg)
		}
	}
	got := decode[dto.TaskResponse](t, doJSON(t, h, http.MethodGet, "/api/tasks/1", ""))
	if got.Horas != 1 || !got.End.After(got.Start) {
		t.Errorf("task changed on bad input: %+v", got)
	}
}

func TestUpdate(t *testing.T) {
	h := newTestApp(t).Router()
	doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":1}`)

	w := doJSON(t, h, http.MethodPut, "/api/tasks/1", `{"completed":true,"fecha":"2024-06-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", w.Code, w.Body)
	}
	got := decode[dto.TaskResponse](t, w)
	if !got.Completed || got.Fecha != "2024-06-01" {
		t.Errorf("fields not merged: %+v", got)
	}
	if got.Start.Month() != time.January {
		t.Errorf("start moved on partial update: %v", got.Start)
	}

	w = doJSON(t, h, http.MethodPut, "/api/tasks/1", `{"fecha":"2024-06-01","hora":"14:00","horas":4}`)
	got = decode[dto.TaskResponse](t, w)
	if got.Start.Month() != time.June || got.Start.Hour() != 14 || got.End.Sub(got.Start) != 4*time.Hour {
		t.Errorf("window not recomputed: %v - %v", got.Start, got.End)
	}
}

func TestUpdateNotFound(t *testing.T) {
	h := newTestApp(t).Router()
	for _, path := range []string{"/api/tasks/5", "/api/tasks/abc"} {
		w := doJSON(t, h, http.MethodPut, path, `{"name":"x"}`)
		if w.Code != http.StatusNotFound {
			t.Errorf("PUT %s: status = %d, want 404", path, w.Code)
		}
	}
}

func TestUpdateBadBody(t *testing.T) {
	h := newTestApp(t).Router()
	doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":1}`)
	w := doJSON(t, h, http.MethodPut, "/api/tasks/1", `{"horas":"two"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteAlwaysNoContent(t *testing.T) {
	h := newTestApp(t).Router()
	doJSON(t, h, http.MethodPost, "/api/tasks", `{"name":"a","fecha":"2024-01-01","hora":"09:00","horas":1}`)

	for _, path := range []string{"/api/tasks/99", "/api/tasks/nope"} {
		w := doJSON(t, h, http.MethodDelete, path, "")
		if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
			t.Errorf("DELETE %s: status = %d body %q", path, w.Code, w.Body)
		}
	}
	list := decode[[]dto.TaskResponse](t, doJSON(t, h, http.MethodGet, "/api/tasks", ""))
	if len(list) != 1 {
		t.Errorf("store changed by deleting a missing id: %+v", list)
	}

	w := doJSON(t, h, http.MethodDelete, "/api/tasks/1", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("DELETE existing: status = %d", w.Code)
	}
	if w := doJSON(t, h, http.MethodGet, "/api/tasks/1", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete: status = %d, want 404", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestApp(t).Router()
	w := doJSON(t, h, http.MethodGet, "/health", "")
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}
}

func TestInfoEndpoints(t *testing.T) {
	h := newTestApp(t).Router()
	if w := doJSON(t, h, http.MethodGet, "/version", ""); !strings.Contains(w.Body.String(), "v-test") {
		t.Errorf("version body = %s", w.Body)
	}
	w := doJSON(t, h, http.MethodGet, "/swagger-doc.json", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "/tasks/{id}") {
		t.Errorf("swagger doc status = %d", w.Code)
	}
}
