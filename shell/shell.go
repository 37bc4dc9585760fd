// Package shell bridges the controller to an external presentation shell over a websocket.
// The shell sends JSON commands and receives selection and asset events. Commands are queued
// onto the frame thread, so the controller is never touched from a network goroutine.
package shell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-orrery/solar"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Command names accepted from the shell.
const (
	CommandToggleLight  = "toggleLight"
	CommandToggleOrbits = "toggleOrbits"
	CommandUnfocus      = "unfocus"
	CommandPause        = "pause"
	CommandResume       = "resume"
)

// Event names sent to the shell.
const (
	EventSelectionChanged = "selectionChanged"
	EventSelectionCleared = "selectionCleared"
	EventAssetDegraded    = "assetDegraded"
	EventError            = "error"
)

// ErrUnknownCommand is reported to the client for a command name the bridge does not handle.
var ErrUnknownCommand = errors.New("shell: unknown command")

// sendBuffer is the number of queued events per client before the client is dropped as too slow.
const sendBuffer = 32

// Command is one inbound message, e.g. {"command":"toggleOrbits","value":true}.
type Command struct {
	Command string `json:"command"`
	Value   bool   `json:"value"`
}

// Event is one outbound message. Positions are rounded to two decimals, as the info panel shows them.
type Event struct {
	Event    string      `json:"event"`
	Name     string      `json:"name,omitempty"`
	Position *[3]float64 `json:"position,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Target is the part of the controller the shell can drive.
type Target interface {
	UpdateLight(useAmbient bool)
	ToggleOrbits(show bool)
	Unfocus()
	Pause()
	Resume()
}

// Poster queues work onto the frame thread. engine.Engine implements it.
type Poster interface {
	Post(fn func())
}

// client is one connected shell.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// bridge is the implementation of the Bridge interface.
type bridge struct {
	mu *sync.Mutex

	target   Target
	poster   Poster
	upgrader websocket.Upgrader

	clients  map[*client]struct{}
	current  *Event
	degraded []Event
	origins  map[string]struct{}
	server   *http.Server

	commandRate  rate.Limit
	commandBurst int

	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	commands   *prometheus.CounterVec
	events     *prometheus.CounterVec
	focuses    prometheus.Counter
	connected  prometheus.Gauge
}

// Bridge defines the interface for the websocket link to the presentation shell.
//
// A Bridge is a solar.Observer: subscribe it to the controller and every selection and asset
// event is broadcast to all connected clients. A client that connects while a body is selected
// immediately receives the current selection, followed by every degraded asset reported so far.
type Bridge interface {
	solar.Observer

	// Handler returns the HTTP handler serving the websocket at /ws and metrics at /metrics.
	//
	// Returns:
	//   - http.Handler: the bridge's routes
	Handler() http.Handler

	// ListenAndServe serves Handler on addr until Shutdown is called.
	//
	// Parameters:
	//   - addr: the TCP address to listen on, e.g. ":8090"
	//
	// Returns:
	//   - error: the listener error, or nil after Shutdown
	ListenAndServe(addr string) error

	// Shutdown disconnects every client and stops the server started by ListenAndServe.
	//
	// Parameters:
	//   - ctx: bounds how long in-flight HTTP requests are waited for
	//
	// Returns:
	//   - error: an error if the server did not stop cleanly
	Shutdown(ctx context.Context) error

	// Clients returns the number of connected clients.
	//
	// Returns:
	//   - int: the client count
	Clients() int
}

var _ Bridge = &bridge{}

// NewBridge creates a bridge that applies shell commands to target on the poster's thread.
// Metrics are registered with the default Prometheus registry unless WithRegistry is given.
//
// Parameters:
//   - target: the controller operations driven by commands
//   - poster: queues command application onto the frame thread
//   - opts: functional options to configure the bridge
//
// Returns:
//   - Bridge: the new bridge
func NewBridge(target Target, poster Poster, opts ...BridgeOption) Bridge {
	if target == nil || poster == nil {
		panic("shell: target and poster are required")
	}

	b := &bridge{
		mu:           &sync.Mutex{},
		target:       target,
		poster:       poster,
		clients:      make(map[*client]struct{}),
		origins:      make(map[string]struct{}),
		commandRate:  rate.Limit(20),
		commandBurst: 5,
		registerer:   prometheus.DefaultRegisterer,
		gatherer:     prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.upgrader = websocket.Upgrader{CheckOrigin: b.checkOrigin}

	b.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_shell_commands_total",
		Help: "Shell commands received, by command and result",
	}, []string{"command", "result"})
	b.events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orrery_shell_events_total",
		Help: "Events broadcast to the shell, by event",
	}, []string{"event"})
	b.focuses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orrery_focus_sequences_total",
		Help: "Focus sequences that completed with a selection",
	})
	b.connected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orrery_shell_clients",
		Help: "Connected shell clients",
	})
	b.registerer.MustRegister(b.commands, b.events, b.focuses, b.connected)

	return b
}

func (b *bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.handleWebSocket)
	mux.Handle("/metrics", promhttp.HandlerFor(b.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (b *bridge) ListenAndServe(addr string) error {
	b.mu.Lock()
	if b.server != nil {
		b.mu.Unlock()
		return errors.New("shell: already serving")
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	b.server = srv
	b.mu.Unlock()

	log.Printf("[Shell] listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shell server failed: %w", err)
	}
	return nil
}

func (b *bridge) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	srv := b.server
	b.server = nil
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (b *bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *bridge) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Shell] websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(b.commandRate, b.commandBurst),
	}

	b.mu.Lock()
	b.clients[c] = struct{}{}
	replay := make([]Event, 0, len(b.degraded)+1)
	if b.current != nil {
		replay = append(replay, *b.current)
	}
	replay = append(replay, b.degraded...)
	b.mu.Unlock()
	b.connected.Inc()
	log.Printf("[Shell] client connected from %s", r.RemoteAddr)

	go b.writeLoop(c)
	for _, e := range replay {
		b.reply(c, e)
	}
	b.readLoop(c)
}

// readLoop applies commands until the connection fails, then unregisters the client.
func (b *bridge) readLoop(c *client) {
	defer func() {
		b.mu.Lock()
		delete(b.clients, c)
		b.mu.Unlock()
		b.connected.Dec()
		c.close()
		c.conn.Close()
		log.Printf("[Shell] client disconnected")
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			b.commands.WithLabelValues("invalid", "rejected").Inc()
			b.reply(c, Event{Event: EventError, Error: fmt.Sprintf("malformed command: %v", err)})
			continue
		}

		// Unknown names share one label so clients cannot mint new series.
		apply, err := b.resolve(cmd)
		label := cmd.Command
		if err != nil {
			label = "unknown"
		}

		if !c.limiter.Allow() {
			b.commands.WithLabelValues(label, "limited").Inc()
			b.reply(c, Event{Event: EventError, Error: "rate limited"})
			continue
		}
		if err != nil {
			b.commands.WithLabelValues(label, "rejected").Inc()
			b.reply(c, Event{Event: EventError, Error: err.Error()})
			continue
		}
		b.commands.WithLabelValues(cmd.Command, "applied").Inc()
		b.poster.Post(apply)
	}
}

// resolve maps a command onto the controller call it triggers.
func (b *bridge) resolve(cmd Command) (func(), error) {
	switch cmd.Command {
	case CommandToggleLight:
		return func() { b.target.UpdateLight(cmd.Value) }, nil
	case CommandToggleOrbits:
		return func() { b.target.ToggleOrbits(cmd.Value) }, nil
	case CommandUnfocus:
		return b.target.Unfocus, nil
	case CommandPause:
		return b.target.Pause, nil
	case CommandResume:
		return b.target.Resume, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Command)
	}
}

func (b *bridge) writeLoop(c *client) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[Shell] websocket write error: %v", err)
			c.conn.Close()
			// Drain until readLoop notices the closed connection and closes send.
			for range c.send {
			}
			return
		}
	}
}

// reply queues an event for one client without blocking the read loop.
func (b *bridge) reply(c *client, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// broadcast queues an event for every client. Clients whose queue is full are disconnected.
func (b *bridge) broadcast(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[Shell] failed to encode %s event: %v", e.Event, err)
		return
	}
	b.events.WithLabelValues(e.Event).Inc()

	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[Shell] dropping slow client")
			c.conn.Close()
		}
	}
}

func (b *bridge) SelectionChanged(name string, position mgl32.Vec3) {
	pos := [3]float64{round2(position.X()), round2(position.Y()), round2(position.Z())}
	e := Event{Event: EventSelectionChanged, Name: name, Position: &pos}

	b.mu.Lock()
	b.current = &e
	b.mu.Unlock()
	b.focuses.Inc()

	b.broadcast(e)
}

func (b *bridge) SelectionCleared() {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()

	b.broadcast(Event{Event: EventSelectionCleared})
}

func (b *bridge) AssetDegraded(asset string, err error) {
	e := Event{Event: EventAssetDegraded, Name: asset}
	if err != nil {
		e.Error = err.Error()
	}

	b.mu.Lock()
	replaced := false
	for i := range b.degraded {
		if b.degraded[i].Name == asset {
			b.degraded[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		b.degraded = append(b.degraded, e)
	}
	b.mu.Unlock()

	b.broadcast(e)
}

// checkOrigin accepts non-browser clients, pages served from the bridge's own host and the
// configured origins.
func (b *bridge) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	_, ok := b.origins[normalizeOrigin(origin)]
	if !ok {
		log.Printf("[Shell] rejected websocket from origin %s", origin)
	}
	return ok
}

func normalizeOrigin(origin string) string {
	return strings.ToLower(strings.TrimSuffix(origin, "/"))
}

func round2(v float32) float64 {
	return math.Round(float64(v)*100) / 100
}
