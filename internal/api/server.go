// Package api provides the read-only HTTP surface for observing world
// state: status, events, characters, the social graph, and per-simulator
// snapshots. GET only; the kernel takes no input over the wire.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/talgya/ashfall/internal/engine"
	"github.com/talgya/ashfall/internal/weather"
	"github.com/talgya/ashfall/internal/world"
)

// Server serves world state over HTTP.
type Server struct {
	Sim  *engine.Simulation
	Eng  *engine.Engine
	Port int
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/characters", s.handleCharacters)
	mux.HandleFunc("/api/v1/character/", s.handleCharacter)
	mux.HandleFunc("/api/v1/graph", s.handleGraph)
	mux.HandleFunc("/api/v1/economy", s.handleEconomy)
	mux.HandleFunc("/api/v1/weather", s.handleWeather)
	mux.HandleFunc("/api/v1/disease", s.handleDisease)
	mux.HandleFunc("/api/v1/ecosystem", s.handleEcosystem)
	return mux
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"tick":   s.Sim.World.Tick,
		"day":    s.Sim.World.Global.DayOfYear,
		"season": world.SeasonName(s.Sim.World.Global.Season),
		"global": s.Sim.World.Global,
		"stats":  s.Sim.Stats,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	n := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 {
			n = v
		}
	}
	if id := r.URL.Query().Get("participant"); id != "" {
		writeJSON(w, s.Sim.World.EventsByParticipant(id))
		return
	}
	writeJSON(w, s.Sim.World.RecentEvents(n))
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	out := make([]*world.Character, 0, len(s.Sim.World.Characters))
	for _, c := range s.Sim.World.Characters {
		out = append(out, c)
	}
	writeJSON(w, out)
}

func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/character/")
	c, ok := s.Sim.World.GetCharacter(id)
	if !ok {
		http.Error(w, "character not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"character": c,
		"health":    s.Sim.Disease.Describe(id),
		"friends":   s.Sim.World.Graph.Friends(id),
		"enemies":   s.Sim.World.Graph.Enemies(id),
		"events":    s.Sim.World.EventsByParticipant(id),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	threshold := 0.3
	if q := r.URL.Query().Get("threshold"); q != "" {
		if v, err := strconv.ParseFloat(q, 64); err == nil {
			threshold = v
		}
	}
	writeJSON(w, map[string]any{
		"stats":            s.Sim.World.Graph.GetStats(),
		"clusters":         s.Sim.World.Graph.Clusters(threshold),
		"most_influential": s.Sim.World.Graph.MostInfluential(5),
	})
}

func (s *Server) handleEconomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Economy.GetSummary())
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	locals := make(map[string]weather.Local, len(s.Sim.World.Locations))
	for id := range s.Sim.World.Locations {
		locals[id] = s.Sim.Weather.GetWeather(id)
	}
	writeJSON(w, map[string]any{
		"condition":   weather.ConditionName(s.Sim.Weather.Current),
		"temperature": s.Sim.Weather.Temperature,
		"effects":     s.Sim.Weather.GetEffects(),
		"locations":   locals,
	})
}

func (s *Server) handleDisease(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Disease.GetStats())
}

func (s *Server) handleEcosystem(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]any)
	for id := range s.Sim.World.Locations {
		if info, ok := s.Sim.Eco.GetEcosystemInfo(id); ok {
			out[id] = info
		}
	}
	writeJSON(w, out)
}
