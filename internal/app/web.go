package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/relabs-tech/rolling_die/internal/config"
	"github.com/relabs-tech/rolling_die/internal/die"
	"github.com/relabs-tech/rolling_die/internal/event"
	"github.com/relabs-tech/rolling_die/internal/history"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// historyReader is the read side of the history store.
type historyReader interface {
	Recent(ctx context.Context, limit int) ([]history.Record, error)
	Counts(ctx context.Context) (map[die.Face]int, error)
}

// webState caches the latest roller messages for the HTTP API.
type webState struct {
	mu         sync.RWMutex
	lastPose   event.Pose
	havePose   bool
	lastResult event.Result
	haveResult bool
	lastState  event.State
	haveState  bool
}

func (s *webState) setPose(p event.Pose) {
	s.mu.Lock()
	s.lastPose, s.havePose = p, true
	s.mu.Unlock()
}

func (s *webState) setResult(r event.Result) {
	s.mu.Lock()
	s.lastResult, s.haveResult = r, true
	s.mu.Unlock()
}

func (s *webState) setState(st event.State) {
	s.mu.Lock()
	s.lastState, s.haveState = st, true
	s.mu.Unlock()
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	Rolls  []history.Record `json:"rolls"`
	Counts map[string]int   `json:"counts"`
}

type webServer struct {
	cfg     *config.Config
	state   *webState
	pub     publisher
	history historyReader // may be nil
	hub     *wsHub
	now     func() time.Time
}

func newWebServer(cfg *config.Config, pub publisher, hist historyReader) *webServer {
	return &webServer{
		cfg:     cfg,
		state:   &webState{},
		pub:     pub,
		history: hist,
		hub:     newWSHub(),
		now:     time.Now,
	}
}

// handler wires the API, the websocket stream and the static files.
func (s *webServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pose", s.handlePose)
	mux.HandleFunc("/api/result", s.handleResult)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/roll", s.handleRoll)
	mux.HandleFunc("/api/roll/cancel", s.handleCancel)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.WebStaticDir)))
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func (s *webServer) handlePose(w http.ResponseWriter, r *http.Request) {
	s.state.mu.RLock()
	p, ok := s.state.lastPose, s.state.havePose
	s.state.mu.RUnlock()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *webServer) handleResult(w http.ResponseWriter, r *http.Request) {
	s.state.mu.RLock()
	res, ok := s.state.lastResult, s.state.haveResult
	s.state.mu.RUnlock()
	if !ok {
		http.Error(w, "no roll yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *webServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.state.mu.RLock()
	st, ok := s.state.lastState, s.state.haveState
	s.state.mu.RUnlock()
	if !ok {
		http.Error(w, "roller not seen yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *webServer) requestRoll(cancel bool) error {
	req := event.RollRequest{Source: "web", Cancel: cancel, Time: s.now()}
	return s.pub.Publish(s.cfg.TopicRollRequest, false, req)
}

func (s *webServer) handleRoll(w http.ResponseWriter, r *http.Request) {
	s.postRequest(w, r, false)
}

func (s *webServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.postRequest(w, r, true)
}

func (s *webServer) postRequest(w http.ResponseWriter, r *http.Request, cancel bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.requestRoll(cancel); err != nil {
		log.Printf("web: %v", err)
		http.Error(w, "roller unreachable", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *webServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, fmt.Sprintf("invalid limit %q", v), http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	if s.history == nil {
		http.Error(w, "history is disabled", http.StatusServiceUnavailable)
		return
	}
	rolls, err := s.history.Recent(r.Context(), limit)
	if err == nil {
		var counts map[die.Face]int
		counts, err = s.history.Counts(r.Context())
		if err == nil {
			resp := HistoryResponse{Rolls: rolls, Counts: make(map[string]int, len(counts))}
			if resp.Rolls == nil {
				resp.Rolls = []history.Record{}
			}
			for f, n := range counts {
				resp.Counts[strconv.Itoa(int(f))] = n
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	if errors.Is(err, history.ErrNotConfigured) {
		http.Error(w, "history is disabled", http.StatusServiceUnavailable)
		return
	}
	log.Printf("web: history error: %v", err)
	http.Error(w, "history unavailable", http.StatusInternalServerError)
}

// subscribe feeds the cache and the websocket stream from MQTT.
func (s *webServer) subscribe(sub func(topic string, fn func([]byte)) error) error {
	if err := sub(s.cfg.TopicPose, func(b []byte) { s.onMessage(wsTypePose, b) }); err != nil {
		return err
	}
	if err := sub(s.cfg.TopicState, func(b []byte) { s.onMessage(wsTypeState, b) }); err != nil {
		return err
	}
	return sub(s.cfg.TopicResult, func(b []byte) { s.onMessage(wsTypeResult, b) })
}

func (s *webServer) onMessage(kind string, payload []byte) {
	var err error
	switch kind {
	case wsTypePose:
		var p event.Pose
		if err = json.Unmarshal(payload, &p); err == nil {
			s.state.setPose(p)
		}
	case wsTypeState:
		var st event.State
		if err = json.Unmarshal(payload, &st); err == nil {
			s.state.setState(st)
		}
	case wsTypeResult:
		var res event.Result
		if err = json.Unmarshal(payload, &res); err == nil {
			s.state.setResult(res)
		}
	}
	if err != nil {
		log.Printf("web: %s unmarshal error: %v", kind, err)
		return
	}
	s.hub.broadcast(WSResponse{Type: kind, Data: payload})
}

// RunWeb serves the dice API and the browser UI.
func RunWeb() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDWeb)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	var hist historyReader
	if cfg.HistoryDBPath != "" {
		store, err := history.Open(cfg.HistoryDBPath)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer store.Close()
		hist = store
	}

	srv := newWebServer(cfg, mqttPublisher{client: client}, hist)
	if err := srv.subscribe(rawSubscriber(client, "web")); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, srv.handler())
}
