package server

import (
	"fmt"
	"net/http"

	"aether-server/internal/engine"
	"aether-server/internal/version"
	"aether-server/pkg/logger"
)

// Server - HTTP-обвязка одного забега: websocket для клиента,
// здоровье, версия, отладочные ручки.
type Server struct {
	Game *engine.GameService
	Port string
}

func New(game *engine.GameService, port string) *Server {
	return &Server{Game: game, Port: port}
}

// Run блокируется на ListenAndServe.
func (s *Server) Run() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, version.Info())
	})

	debug := &DebugHandler{Game: s.Game, Cheats: s.Game.Cfg.Cheats}
	debug.Mount(mux)

	addr := ":" + s.Port
	logger.Log.WithField("addr", addr).Info("HTTP server listening")
	return http.ListenAndServe(addr, enableCORS(mux))
}

// enableCORS открывает ручки для браузерных клиентов с других origin.
// Сервер отдает только снимки одного забега, прятать тут нечего.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
