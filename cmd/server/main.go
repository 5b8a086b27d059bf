package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtraver/gaelog"

	"github.com/mtraver/rpi-thermal-cam/camera"
	"github.com/mtraver/rpi-thermal-cam/capture"
	serverconfig "github.com/mtraver/rpi-thermal-cam/cmd/server/config"
	"github.com/mtraver/rpi-thermal-cam/events"
	"github.com/mtraver/rpi-thermal-cam/panel"
)

const shutdownTimeout = 5 * time.Second

var configFilePath string

func init() {
	flag.StringVar(&configFilePath, "config", "", "path to config file")
}

type indexHandler struct {
	Server *server
}

func (h indexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := struct {
		Device   string
		Bindings []panel.Binding
		FunFact  string
	}{
		Device:   h.Server.Config.Device,
		Bindings: panel.Bindings(),
		FunFact:  funFacts[rand.Intn(len(funFacts))],
	}

	if err := templates.ExecuteTemplate(w, "index", data); err != nil {
		gaelog.Errorf(r.Context(), "Could not execute template: %v", err)
	}
}

func newWebUIMux(s *server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", indexHandler{Server: s})
	mux.Handle("/status", statusHandler{
		Server:   s,
		Template: templates,
	})

	for _, a := range actions {
		mux.Handle(a.Path, actionHandler{
			Server:     s,
			Action:     a,
			CheckToken: false,
		})
	}
	return mux
}

func newAPIMux(s *server) *http.ServeMux {
	mux := http.NewServeMux()
	for _, a := range actions {
		mux.Handle(a.Path, actionHandler{
			Server:     s,
			Action:     a,
			CheckToken: true,
		})
	}
	return mux
}

func newPublisher(config serverconfig.Config) (events.Publisher, error) {
	if config.MQTT.Broker == "" {
		return events.Nop(), nil
	}

	topic := config.MQTT.Topic
	if topic == "" {
		topic = events.DefaultTopic(config.Device)
	}
	log.Printf("Publishing events to %v on %v", topic, config.MQTT.Broker)
	return events.NewMQTT(config.MQTT.Broker, config.MQTT.ClientID, topic)
}

func main() {
	flag.Parse()

	config, err := serverconfig.Load(configFilePath)
	if err != nil {
		log.Printf("Failed to parse config file %v: %v", configFilePath, err)
		os.Exit(1)
	}
	if config.Secret == "" {
		log.Printf("Warning: no secret configured, API requests will be rejected")
	}

	cam, err := camera.New(config.CameraOptions())
	if err != nil {
		log.Printf("Failed to set up camera: %v", err)
		os.Exit(1)
	}

	pub, err := newPublisher(config)
	if err != nil {
		log.Printf("Failed to set up event publisher: %v", err)
		os.Exit(1)
	}

	s := newServer(config, cam, capture.Capturer{
		Command:      config.SnapshotCommand,
		OutputFolder: config.OutputFolder,
	}, pub)

	webui := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.WebUIPort),
		Handler: gaelog.Wrap(newWebUIMux(s)),
	}
	api := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.Port),
		Handler: gaelog.Wrap(newAPIMux(s)),
	}

	errc := make(chan error, 2)
	go func() {
		log.Printf("Web UI server listening on port %v", config.WebUIPort)
		errc <- webui.ListenAndServe()
	}()
	go func() {
		log.Printf("API server listening on port %v", config.Port)
		errc <- api.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		log.Println(err)
		pub.Close()
		os.Exit(1)
	case <-s.Done():
		log.Printf("Exit requested, shutting down")
	case <-sig:
		log.Printf("Signal received, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range []*http.Server{webui, api} {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown of %v failed: %v", srv.Addr, err)
		}
	}
	pub.Close()
}
