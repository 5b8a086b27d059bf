package panel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Event is a click on a panel element.
type Event struct {
	Target string

	defaultPrevented bool
}

// PreventDefault suppresses the element's default navigation.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// Handler handles a click. The return value reports whether default
// handling should continue; panel handlers always return false.
type Handler func(*Event) bool

// Observer receives the outcome of every request a Binder dispatches.
type Observer func(b Binding, err error)

// Option configures a Binder.
type Option func(*Binder)

// WithClient sets the HTTP client used for dispatches. The zero-timeout
// default client is used otherwise.
func WithClient(c *http.Client) Option {
	return func(b *Binder) {
		b.client = c
	}
}

// WithObserver sets a hook that is called once per dispatch after the
// response has been read and discarded.
func WithObserver(o Observer) Option {
	return func(b *Binder) {
		b.observe = o
	}
}

// Binder issues fire-and-forget GET requests for panel clicks.
type Binder struct {
	base    *url.URL
	client  *http.Client
	observe Observer

	inflight sync.WaitGroup
}

// New returns a Binder that resolves binding paths against baseURL.
func New(baseURL string, opts ...Option) (*Binder, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("panel: bad base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("panel: base URL %q must be absolute", baseURL)
	}

	b := &Binder{
		base:   u,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Bind creates one handler per binding, keyed by element id.
func (b *Binder) Bind() map[string]Handler {
	handlers := make(map[string]Handler, len(bindings))
	for _, bd := range bindings {
		handlers[bd.ID] = b.handler(bd)
	}
	return handlers
}

// Click simulates a click on the element with the given id and returns the
// event after the handler has run. The request itself may still be in
// flight when Click returns.
func (b *Binder) Click(id string) (*Event, error) {
	bd, err := Lookup(id)
	if err != nil {
		return nil, err
	}

	ev := &Event{Target: id}
	b.handler(bd)(ev)
	return ev, nil
}

// Wait blocks until every dispatched request has completed.
func (b *Binder) Wait() {
	b.inflight.Wait()
}

func (b *Binder) handler(bd Binding) Handler {
	target := b.base.ResolveReference(&url.URL{Path: bd.Path}).String()

	return func(ev *Event) bool {
		ev.PreventDefault()

		b.inflight.Add(1)
		go func() {
			defer b.inflight.Done()

			err := b.get(target)
			if b.observe != nil {
				b.observe(bd, err)
			}
		}()

		return false
	}
}

func (b *Binder) get(target string) error {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("panel: GET %s: %s", target, resp.Status)
	}

	var body interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("panel: GET %s: bad body: %w", target, err)
	}
	return nil
}
