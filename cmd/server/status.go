package main

import (
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/mtraver/gaelog"

	"github.com/mtraver/rpi-thermal-cam/camera"
)

const maxActionRecords = 100

type actionRecord struct {
	Timestamp time.Time
	Action    string
	Success   bool
}

// actionLog keeps the most recent actions, oldest first.
type actionLog struct {
	mu      sync.Mutex
	max     int
	records []actionRecord
}

func newActionLog(max int) *actionLog {
	return &actionLog{
		max:     max,
		records: make([]actionRecord, 0, 16),
	}
}

func (l *actionLog) add(r actionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, r)
	if over := len(l.records) - l.max; over > 0 {
		l.records = append(l.records[:0], l.records[over:]...)
	}
}

func (l *actionLog) snapshot() []actionRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]actionRecord(nil), l.records...)
}

type statusHandler struct {
	Server   *server
	Template *template.Template
}

func (h statusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Device   string
		Settings camera.Settings
		Actions  []actionRecord
	}{
		Device:   h.Server.Config.Device,
		Settings: h.Server.Camera.Settings(),
		Actions:  h.Server.Log.snapshot(),
	}

	if err := h.Template.ExecuteTemplate(w, "status", data); err != nil {
		gaelog.Errorf(r.Context(), "Could not execute template: %v", err)
	}
}
