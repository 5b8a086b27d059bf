package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mtraver/gaelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtraver/rpi-thermal-cam/auth"
	"github.com/mtraver/rpi-thermal-cam/camera"
	"github.com/mtraver/rpi-thermal-cam/capture"
	serverconfig "github.com/mtraver/rpi-thermal-cam/cmd/server/config"
	"github.com/mtraver/rpi-thermal-cam/events"
	"github.com/mtraver/rpi-thermal-cam/panel"
)

const testSecret = "test-secret"

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var a []string
	for _, e := range p.events {
		a = append(a, e.Action)
	}
	return a
}

type fixture struct {
	server    *server
	publisher *fakePublisher
	snapDir   string
	webui     *httptest.Server
	api       *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	config := serverconfig.Config{
		Device:    "cam1",
		Secret:    testSecret,
		Colormaps: []string{"jet", "bwr", "seismic"},
	}
	cam, err := camera.New(config.CameraOptions())
	require.NoError(t, err)

	f := &fixture{
		publisher: &fakePublisher{},
		snapDir:   t.TempDir(),
	}
	f.server = newServer(config, cam, capture.Capturer{
		Command:      []string{"touch", capture.PathToken},
		OutputFolder: f.snapDir,
	}, f.publisher)

	f.webui = httptest.NewServer(gaelog.Wrap(newWebUIMux(f.server)))
	t.Cleanup(f.webui.Close)
	f.api = httptest.NewServer(gaelog.Wrap(newAPIMux(f.server)))
	t.Cleanup(f.api.Close)
	return f
}

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	if resp.StatusCode == http.StatusOK {
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestIndexPage(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.webui.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	for _, b := range panel.Bindings() {
		a := doc.Find("a#" + b.ID)
		assert.Equal(t, 1, a.Length(), "anchor for %q", b.ID)
		assert.Equal(t, label(b.ID), strings.TrimSpace(a.Text()))
	}

	script := doc.Find("script").Text()
	assert.Contains(t, script, `"id":"colormap-prev","path":"/colormap/next"`)
	assert.Contains(t, script, "event.preventDefault()")
}

func TestIndexNotFound(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.webui.URL + "/video_feed")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebUIEndpoints(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		key  string
		want interface{}
	}{
		{"/colormap", "colormap", "jet"},
		{"/colormap/next", "colormap", "bwr"},
		{"/colormap/next", "colormap", "seismic"},
		{"/colormap/prev", "colormap", "bwr"},
		{"/units", "use_f", false},
		{"/units", "use_f", true},
		{"/filter", "filter", true},
		{"/interpolation", "interpolation", "Cubic"},
		{"/interpolation/next", "interpolation", "Lanczos4"},
		{"/interpolation/prev", "interpolation", "Cubic"},
		{"/interpolation/prev", "interpolation", "Area"},
	}

	for _, tc := range tests {
		status, body := getJSON(t, f.webui.URL+tc.path)
		require.Equal(t, http.StatusOK, status, tc.path)
		assert.Equal(t, tc.want, body[tc.key], tc.path)
	}

	// Reads are not recorded.
	assert.Len(t, f.server.Log.snapshot(), 9)
}

func TestSave(t *testing.T) {
	f := newFixture(t)

	status, body := getJSON(t, f.webui.URL+"/save")
	require.Equal(t, http.StatusOK, status)

	path, ok := body["snapshot"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(path, f.snapDir))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveFailure(t *testing.T) {
	f := newFixture(t)
	f.server.Capturer.Command = nil

	resp, err := http.Get(f.webui.URL + "/save")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	records := f.server.Log.snapshot()
	require.Len(t, records, 1)
	assert.False(t, records[0].Success)
}

func TestWebUIRejectsPost(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Post(f.webui.URL+"/units", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.True(t, f.server.Camera.Settings().UseF)
}

func TestExit(t *testing.T) {
	f := newFixture(t)

	status, body := getJSON(t, f.webui.URL+"/exit")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["exit"])

	select {
	case <-f.server.Done():
	case <-time.After(time.Second):
		t.Fatal("exit was not requested")
	}

	// A second exit must not panic on the closed channel.
	status, _ = getJSON(t, f.webui.URL+"/exit")
	assert.Equal(t, http.StatusOK, status)
}

func postToken(t *testing.T, url, token string) int {
	t.Helper()

	b, err := json.Marshal(apiRequest{Token: token})
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func TestAPI(t *testing.T) {
	f := newFixture(t)

	token, err := auth.NewToken([]byte(testSecret), "cam1", "/filter", time.Hour)
	require.NoError(t, err)
	otherDevice, err := auth.NewToken([]byte(testSecret), "cam2", "/filter", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, postToken(t, f.api.URL+"/filter", token))
	assert.True(t, f.server.Camera.Settings().Filter)

	assert.Equal(t, http.StatusForbidden, postToken(t, f.api.URL+"/units", token))
	assert.Equal(t, http.StatusForbidden, postToken(t, f.api.URL+"/filter", otherDevice))
	assert.Equal(t, http.StatusForbidden, postToken(t, f.api.URL+"/filter", ""))

	resp, err := http.Get(f.api.URL + "/filter")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	assert.True(t, f.server.Camera.Settings().Filter)
	assert.True(t, f.server.Camera.Settings().UseF)
}

func TestAPIHasNoPages(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.api.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatusPage(t *testing.T) {
	f := newFixture(t)

	getJSON(t, f.webui.URL+"/colormap/next")
	getJSON(t, f.webui.URL+"/units")

	resp, err := http.Get(f.webui.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	rows := doc.Find("tr.action")
	require.Equal(t, 2, rows.Length())
	assert.Contains(t, rows.First().Text(), "/colormap/next")
	assert.Contains(t, doc.Find("p").First().Text(), "Units: C")
	assert.Contains(t, doc.Find("p").First().Text(), "Colormap: bwr")
}

func TestEventsPublished(t *testing.T) {
	f := newFixture(t)

	getJSON(t, f.webui.URL+"/filter")
	getJSON(t, f.webui.URL+"/colormap")

	require.Eventually(t, func() bool {
		return len(f.publisher.actions()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"/filter"}, f.publisher.actions())

	f.publisher.mu.Lock()
	defer f.publisher.mu.Unlock()
	e := f.publisher.events[0]
	assert.Equal(t, "cam1", e.Device)
	assert.True(t, e.Success)
	assert.True(t, e.Settings.Filter)
}

// TestControlPanel drives the server with the Go binder, clicking every
// panel element once.
func TestControlPanel(t *testing.T) {
	f := newFixture(t)

	var mu sync.Mutex
	var failures []string
	b, err := panel.New(f.webui.URL, panel.WithObserver(func(bd panel.Binding, err error) {
		if err != nil {
			mu.Lock()
			failures = append(failures, fmt.Sprintf("%s: %v", bd.ID, err))
			mu.Unlock()
		}
	}))
	require.NoError(t, err)

	for _, bd := range panel.Bindings() {
		ev, err := b.Click(bd.ID)
		require.NoError(t, err)
		assert.True(t, ev.DefaultPrevented())
	}
	b.Wait()

	assert.Empty(t, failures)

	// colormap-prev cycles forward, so the colormap advanced twice.
	assert.Equal(t, camera.Settings{
		UseF:          false,
		Filter:        true,
		Colormap:      "seismic",
		Interpolation: "Cubic",
	}, f.server.Camera.Settings())

	select {
	case <-f.server.Done():
	default:
		t.Error("exit was not requested")
	}

	entries, err := os.ReadDir(f.snapDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Len(t, f.server.Log.snapshot(), len(panel.Bindings()))
}

func TestActionLogBounded(t *testing.T) {
	l := newActionLog(3)
	for i := 0; i < 5; i++ {
		l.add(actionRecord{Action: fmt.Sprintf("/a%d", i)})
	}

	got := l.snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, "/a2", got[0].Action)
	assert.Equal(t, "/a4", got[2].Action)
}
