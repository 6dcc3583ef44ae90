package server

import (
	"context"
	"encoding/json"
	"net/http"

	"mindstage-server/internal/engine"
	"mindstage-server/internal/version"
	"mindstage-server/pkg/logger"
)

// Server - тонкая сетевая оболочка над сервисом команд.
// Вся игровая логика живет в движке; здесь только транспорт.
type Server struct {
	Service *engine.Service
	Port    string
}

func New(service *engine.Service, port string) *Server {
	return &Server{
		Service: service,
		Port:    port,
	}
}

// Run запускает HTTP сервер.
func (s *Server) Run() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/healthz", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.HandleFunc("/debug/dungeon", enableCORS(s.handleDungeon))

	logger.Log.Infof("🎭 MindStage server running on :%s", s.Port)
	return http.ListenAndServe(":"+s.Port, mux)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := NewClient(s.Service, conn)
	logger.Log.WithField("session", client.sessionID).Info("client connected")

	go client.writePump()
	go client.readPump(context.Background())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(version.Info()); err != nil {
		logger.Log.WithError(err).Warn("failed to encode version info")
	}
}

// handleDungeon отдает слепок прохождения подземелья.
func (s *Server) handleDungeon(w http.ResponseWriter, r *http.Request) {
	dump, err := s.Service.Engine().DungeonDump()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(dump))
}
