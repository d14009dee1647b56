// Package control is the HTTP and websocket surface of a lightbox: power,
// brightness, reset, health, a throttled frame preview and a diagnostics
// stream. It never writes pixels; it only starts and stops the loop and
// sets brightness.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/lightbox/internal/app"
	diag "github.com/coreman2200/lightbox/internal/diagnostics"
	"github.com/coreman2200/lightbox/internal/effect"
	"github.com/coreman2200/lightbox/internal/pixel"
)

// PreviewInterval caps the preview stream at about 20 fps.
const PreviewInterval = 50 * time.Millisecond

var ErrUsage = errors.New("control: bad command")

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

type Server struct {
	core *app.Core
	ctx  context.Context
	log  zerolog.Logger

	Throttle time.Duration

	mu          sync.RWMutex
	clients     map[*client]bool
	diagClients map[*client]bool
	lastEmit    time.Time
	frameID     uint64

	up websocket.Upgrader
}

// New wires a server to core. ctx is the parent of every playback loop the
// server starts.
func New(ctx context.Context, core *app.Core, log zerolog.Logger) *Server {
	s := &Server{
		core:        core,
		ctx:         ctx,
		log:         log,
		Throttle:    PreviewInterval,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		up:          websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
	core.OnFrame(s.broadcastFrame)
	core.OnDiagnostic(s.pushDiag)
	return s
}

// Handler returns the routes wrapped in a permissive CORS handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /power/status", s.handlePowerStatus)
	mux.HandleFunc("POST /power/update/{on}", s.handlePowerUpdate)
	mux.HandleFunc("GET /brightness/status", s.handleBrightnessStatus)
	mux.HandleFunc("POST /brightness/update/{percent}", s.handleBrightnessUpdate)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleFramesWS)
	mux.HandleFunc("/diag", s.handleDiagWS)
	mux.HandleFunc("/control", s.handleControlWS)
	return withCORS(mux)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

type statusReply struct {
	Status any `json:"status"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrUsage) {
		code = http.StatusBadRequest
	}
	s.log.Warn().Err(err).Msg("control request failed")
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) handlePowerStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusReply{s.core.Running()})
}

func (s *Server) handlePowerUpdate(w http.ResponseWriter, r *http.Request) {
	on, err := parseSwitch(r.PathValue("on"))
	if err == nil {
		err = s.power(on)
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusReply{s.core.Running()})
}

func (s *Server) handleBrightnessStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusReply{s.core.Brightness()})
}

func (s *Server) handleBrightnessUpdate(w http.ResponseWriter, r *http.Request) {
	if err := s.brightness(r.PathValue("percent")); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusReply{s.core.Brightness()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.core.Reset(s.ctx); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusReply{s.core.Running()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.core.Status())
}

// power starts or stops the loop; asking for the current state is a no-op.
func (s *Server) power(on bool) error {
	if on == s.core.Running() {
		return nil
	}
	if on {
		return s.core.Start(s.ctx)
	}
	return s.core.Stop()
}

func (s *Server) brightness(arg string) error {
	pct, err := strconv.ParseFloat(arg, 64)
	if err != nil || pct < 0 || pct > 100 {
		return fmt.Errorf("%w: brightness %q, want 0..100", ErrUsage, arg)
	}
	s.core.SetBrightness(pct)
	return nil
}

func parseSwitch(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: power %q, want on or off", ErrUsage, v)
	}
	return b, nil
}

// exec runs one text command from the control socket.
func (s *Server) exec(line string) (any, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrUsage)
	}
	switch strings.ToLower(args[0]) {
	case "power":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: power on|off", ErrUsage)
		}
		on, err := parseSwitch(args[1])
		if err != nil {
			return nil, err
		}
		if err := s.power(on); err != nil {
			return nil, err
		}
	case "brightness":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: brightness <percent>", ErrUsage)
		}
		if err := s.brightness(args[1]); err != nil {
			return nil, err
		}
	case "reset":
		if err := s.core.Reset(s.ctx); err != nil {
			return nil, err
		}
	case "test":
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: test <effect>...", ErrUsage)
		}
		specs := make([]effect.Spec, 0, len(args)-1)
		for _, k := range args[1:] {
			specs = append(specs, effect.Spec{Kind: k})
		}
		if err := s.core.Play(s.ctx, specs...); err != nil {
			return nil, err
		}
	case "status":
	default:
		return nil, fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return s.core.Status(), nil
}

type commandReply struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Status any    `json:"status,omitempty"`
}

func (s *Server) handleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	c := &client{conn: conn}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		st, err := s.exec(string(data))
		reply := commandReply{OK: err == nil, Status: st}
		if err != nil {
			reply.Error = err.Error()
		}
		b, _ := json.Marshal(reply)
		if err := c.write(b); err != nil {
			return
		}
	}
}

func (s *Server) handleFramesWS(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, s.clients)
}

func (s *Server) handleDiagWS(w http.ResponseWriter, r *http.Request) {
	s.serveStream(w, r, s.diagClients)
}

// serveStream registers a write-only subscriber in set until it hangs up.
func (s *Server) serveStream(w http.ResponseWriter, r *http.Request, set map[*client]bool) {
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	set[c] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

type frame struct {
	T       int64  `json:"t"`
	FrameID uint64 `json:"frame_id"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	RGB     []byte `json:"rgb"`
}

func (s *Server) broadcastFrame(px []pixel.Pixel) {
	now := time.Now()
	s.mu.Lock()
	s.frameID++
	if len(s.clients) == 0 || s.lastEmit.Add(s.Throttle).After(now) {
		s.mu.Unlock()
		return
	}
	s.lastEmit = now
	id := s.frameID
	s.mu.Unlock()

	rgb := make([]byte, 0, len(px)*3)
	for _, p := range px {
		c := p.RGBA()
		rgb = append(rgb, c.R, c.G, c.B)
	}
	st := s.core.Strip
	b, _ := json.Marshal(frame{T: now.UnixNano(), FrameID: id, Rows: st.Rows(), Cols: st.Cols(), RGB: rgb})
	s.send(s.clients, b)
}

func (s *Server) pushDiag(d diag.Diagnostic) {
	b, _ := json.Marshal(d)
	s.send(s.diagClients, b)
}

func (s *Server) send(set map[*client]bool, b []byte) {
	s.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	s.mu.RUnlock()
	for _, c := range targets {
		if err := c.write(b); err != nil {
			s.log.Debug().Err(err).Msg("write websocket, dropping client")
			s.mu.Lock()
			delete(set, c)
			s.mu.Unlock()
			_ = c.conn.Close()
		}
	}
}
