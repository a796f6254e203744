// Package api exposes the simulation engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"fixedwing-sim/internal/fixedwing"
	"fixedwing-sim/internal/sim"
)

type Server struct {
	eng      *sim.Engine
	mux      *http.ServeMux
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewServer(eng *sim.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		eng:    eng,
		mux:    http.NewServeMux(),
		logger: logger.With("component", "api"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.health)
	s.mux.HandleFunc("/state", s.state)

	s.mux.HandleFunc("/command/controls", s.controlsCmd)
	s.mux.HandleFunc("/command/surface", s.surfaceCmd)

	s.mux.HandleFunc("/command/reset", s.simpleCmd(sim.CmdReset))
	s.mux.HandleFunc("/command/pause", s.simpleCmd(sim.CmdPause))
	s.mux.HandleFunc("/command/resume", s.simpleCmd(sim.CmdResume))

	s.mux.HandleFunc("/stream", s.streamSSE)
	s.mux.HandleFunc("/ws", s.streamWS)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"status":  "ok",
		"session": s.eng.Session(),
		"tickHz":  s.eng.TickHz(),
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	st, err := s.eng.GetState(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestTimeout)
		return
	}

	if r.URL.Query().Get("format") == "msgpack" {
		b, err := msgpack.Marshal(&st)
		if err != nil {
			s.logger.Error("failed to encode state", "error", err)
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		_, _ = w.Write(b)
		return
	}
	s.writeJSON(w, st)
}

type controlsBody struct {
	Aileron  *float64 `json:"aileron,omitempty"`
	Elevator *float64 `json:"elevator,omitempty"`
	Throttle *float64 `json:"throttle,omitempty"`
	Rudder   *float64 `json:"rudder,omitempty"`
}

func (b controlsBody) empty() bool {
	return b.Aileron == nil && b.Elevator == nil && b.Throttle == nil && b.Rudder == nil
}

func (b controlsBody) command() sim.ControlsCommand {
	return sim.ControlsCommand{
		At:       time.Now(),
		Aileron:  b.Aileron,
		Elevator: b.Elevator,
		Throttle: b.Throttle,
		Rudder:   b.Rudder,
	}
}

func (s *Server) controlsCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body controlsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if body.empty() {
		http.Error(w, "at least one of aileron, elevator, throttle, rudder required", http.StatusBadRequest)
		return
	}

	s.submit(w, body.command())
}

func (s *Server) surfaceCmd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Surface    string   `json:"surface"`
		Deflection *float64 `json:"deflection"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	surface, err := fixedwing.ParseSurface(body.Surface)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Deflection == nil {
		http.Error(w, "deflection required", http.StatusBadRequest)
		return
	}

	s.submit(w, sim.SurfaceCommand{At: time.Now(), Surface: surface, Deflection: *body.Deflection})
}

func (s *Server) simpleCmd(t sim.CommandType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		now := time.Now()
		var cmd sim.Command
		switch t {
		case sim.CmdReset:
			cmd = sim.ResetCommand{At: now}
		case sim.CmdPause:
			cmd = sim.PauseCommand{At: now}
		default:
			cmd = sim.ResumeCommand{At: now}
		}
		s.submit(w, cmd)
	}
}

func (s *Server) submit(w http.ResponseWriter, cmd sim.Command) {
	if !s.eng.Submit(cmd) {
		http.Error(w, "command queue full", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, map[string]any{"status": "accepted", "type": cmd.Type()})
}

func (s *Server) streamSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx := r.Context()
	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, err := marshalJSON(st, "")
			if err != nil {
				s.logger.Error("failed to encode state", "error", err, "tick", st.Tick)
				fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
				flusher.Flush()
				continue
			}
			fmt.Fprintf(w, "event: state\n")
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}

// streamWS pushes every state as a JSON text message. Text messages from
// the client are decoded as control commands.
func (s *Server) streamWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, unsub := s.eng.Subscribe(ctx)
	defer unsub()

	go func() {
		defer cancel()
		for {
			var body controlsBody
			if err := conn.ReadJSON(&body); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("websocket read ended", "error", err)
				}
				return
			}
			if body.empty() {
				continue
			}
			s.eng.Submit(body.command())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			b, err := marshalJSON(st, "")
			if err != nil {
				s.logger.Error("failed to encode state", "error", err, "tick", st.Tick)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	b, err := marshalJSON(v, "  ")
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(b, '\n'))
}
