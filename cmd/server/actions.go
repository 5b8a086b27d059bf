package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/mtraver/gaelog"

	"github.com/mtraver/rpi-thermal-cam/auth"
	"github.com/mtraver/rpi-thermal-cam/camera"
	"github.com/mtraver/rpi-thermal-cam/capture"
	serverconfig "github.com/mtraver/rpi-thermal-cam/cmd/server/config"
	"github.com/mtraver/rpi-thermal-cam/events"
)

const publishTimeout = 5 * time.Second

// server is the state shared by every handler.
type server struct {
	Config    serverconfig.Config
	Camera    *camera.Camera
	Capturer  capture.Capturer
	Publisher events.Publisher
	Log       *actionLog

	exitOnce sync.Once
	exit     chan struct{}
}

func newServer(config serverconfig.Config, cam *camera.Camera, capturer capture.Capturer, pub events.Publisher) *server {
	return &server{
		Config:    config,
		Camera:    cam,
		Capturer:  capturer,
		Publisher: pub,
		Log:       newActionLog(maxActionRecords),
		exit:      make(chan struct{}),
	}
}

// Done is closed once an exit has been requested.
func (s *server) Done() <-chan struct{} {
	return s.exit
}

func (s *server) requestExit() {
	s.exitOnce.Do(func() { close(s.exit) })
}

type action struct {
	Path string

	// Mutates is true if the action changes camera state; such actions are
	// recorded in the action log and published.
	Mutates bool
	Do      func(ctx context.Context, s *server) (interface{}, error)
}

type colormapResponse struct {
	Colormap string `json:"colormap"`
}

type interpolationResponse struct {
	Interpolation string `json:"interpolation"`
}

var actions = []action{
	{
		Path:    "/save",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			path, err := s.Capturer.Snapshot(ctx)
			if err != nil {
				return nil, err
			}
			return struct {
				Snapshot string `json:"snapshot"`
			}{path}, nil
		},
	},
	{
		Path:    "/units",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return struct {
				UseF bool `json:"use_f"`
			}{s.Camera.ToggleUnits()}, nil
		},
	},
	{
		Path: "/colormap",
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return colormapResponse{s.Camera.Colormap()}, nil
		},
	},
	{
		Path:    "/colormap/next",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return colormapResponse{s.Camera.NextColormap()}, nil
		},
	},
	{
		Path:    "/colormap/prev",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return colormapResponse{s.Camera.PrevColormap()}, nil
		},
	},
	{
		Path:    "/filter",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return struct {
				Filter bool `json:"filter"`
			}{s.Camera.ToggleFilter()}, nil
		},
	},
	{
		Path: "/interpolation",
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return interpolationResponse{s.Camera.Interpolation().String()}, nil
		},
	},
	{
		Path:    "/interpolation/next",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return interpolationResponse{s.Camera.NextInterpolation().String()}, nil
		},
	},
	{
		Path:    "/interpolation/prev",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			return interpolationResponse{s.Camera.PrevInterpolation().String()}, nil
		},
	},
	{
		Path:    "/exit",
		Mutates: true,
		Do: func(ctx context.Context, s *server) (interface{}, error) {
			s.requestExit()
			return struct {
				Exit bool `json:"exit"`
			}{true}, nil
		},
	},
}

type apiRequest struct {
	Token string `json:"token"`
}

type actionHandler struct {
	Server     *server
	Action     action
	CheckToken bool
}

func (h actionHandler) checkToken(r *http.Request) error {
	if r.Method != http.MethodPost {
		return fmt.Errorf("thermalcam: bad method")
	}

	b, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	var req apiRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return err
	}

	cfg := h.Server.Config
	return auth.Verify([]byte(cfg.Secret), req.Token, cfg.Device, h.Action.Path)
}

func (h actionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.CheckToken {
		if err := h.checkToken(r); err != nil {
			gaelog.Warningf(ctx, "Token check failed: %v", err)
			w.WriteHeader(http.StatusForbidden)
			return
		}
	} else if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	gaelog.Infof(ctx, "Received request: %v", h.Action.Path)

	resp, err := h.Action.Do(ctx, h.Server)
	if h.Action.Mutates {
		h.Server.record(h.Action.Path, err == nil)
	}
	if err != nil {
		gaelog.Errorf(ctx, "Failed to perform %q: %v", h.Action.Path, err)
		writeJSON(ctx, w, http.StatusInternalServerError, struct {
			Error string `json:"error"`
		}{err.Error()})
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

// record appends to the action log and publishes the action without
// holding up the response.
func (s *server) record(path string, success bool) {
	now := time.Now()
	s.Log.add(actionRecord{
		Timestamp: now,
		Action:    path,
		Success:   success,
	})

	e := events.Event{
		Device:   s.Config.Device,
		Action:   path,
		Success:  success,
		Settings: s.Camera.Settings(),
		Time:     now,
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.Publisher.Publish(pctx, e); err != nil {
			log.Printf("Failed to publish %q: %v", path, err)
		}
	}()
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		gaelog.Errorf(ctx, "Failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
