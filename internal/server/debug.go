package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/internal/engine"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/engine/handlers/admin"
	"aether-server/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка.
// Читы работают мимо цикла забега и не сериализованы с ним: для
// локальной отладки этого достаточно, в бою Cheats выключен.
type DebugHandler struct {
	Game   *engine.GameService
	Cheats bool
}

// Mount регистрирует debug-эндпоинты
func (h *DebugHandler) Mount(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/floors", h.handleListFloors)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)

	mux.HandleFunc("/debug/teleport", h.cheat(h.handleTeleport))
	mux.HandleFunc("/debug/heal", h.cheat(h.handleHeal))
	mux.HandleFunc("/debug/reveal", h.cheat(h.handleReveal))
	mux.HandleFunc("/debug/spawn", h.cheat(h.handleSpawn))
	mux.HandleFunc("/debug/kill", h.cheat(h.handleKill))
}

// /debug/state - сводка забега
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	type StateSummary struct {
		Seed      int64  `json:"seed"`
		Algorithm string `json:"algorithm"`
		Turn      int    `json:"turn"`
		Phase     string `json:"phase"`
		Depth     int    `json:"depth"`
		Live      int    `json:"live_entities"`
		LastErr   string `json:"last_err,omitempty"`
	}

	s := StateSummary{
		Seed:      h.Game.Cfg.Seed,
		Algorithm: h.Game.Cfg.Algorithm,
		Turn:      h.Game.Turn,
		Phase:     h.Game.Phase.String(),
		Depth:     h.Game.Depth,
		Live:      h.Game.Arena.Live(),
	}
	if h.Game.LastErr != nil {
		s.LastErr = h.Game.LastErr.Error()
	}
	writeJSON(w, s)
}

// /debug/floors - список материализованных этажей
func (h *DebugHandler) handleListFloors(w http.ResponseWriter, r *http.Request) {
	type FloorSummary struct {
		Depth       int  `json:"depth"`
		Width       int  `json:"width"`
		Height      int  `json:"height"`
		EntityCount int  `json:"entity_count"`
		IsCurrent   bool `json:"is_current"`
	}

	var summary []FloorSummary
	// Этажи существуют с момента первого спуска и больше не исчезают;
	// непосещенные глубины в ответ не попадают.
	for depth, f := range h.Game.Floors {
		summary = append(summary, FloorSummary{
			Depth:       depth,
			Width:       f.Width,
			Height:      f.Height,
			EntityCount: len(f.SpatialHash),
			IsCurrent:   depth == h.Game.Depth,
		})
	}

	writeJSON(w, summary)
}

// /debug/entities?depth=3 - дамп сущностей этажа (включая скрытые статы и AI)
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	depth := h.Game.Depth
	if s := r.URL.Query().Get("depth"); s != "" {
		fmt.Sscanf(s, "%d", &depth)
	}

	f, ok := h.Game.Floors[depth]
	if !ok {
		http.Error(w, "Floor not materialized", http.StatusNotFound)
		return
	}

	// Полные domain.Entity, без фильтра видимости
	var dump []*domain.Entity
	h.Game.Arena.Each(func(e *domain.Entity) bool {
		if e.Depth == f.Depth {
			dump = append(dump, e)
		}
		return true
	})
	writeJSON(w, dump)
}

// cheat оборачивает административную ручку: POST-only, флаг читов,
// публикация свежего снимка после применения.
func (h *DebugHandler) cheat(fn func(r *http.Request) (handlers.Result, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.Cheats {
			http.Error(w, "Cheats disabled", http.StatusForbidden)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		if h.Game.Player() == nil {
			http.Error(w, "Hero is gone", http.StatusConflict)
			return
		}

		res, err := fn(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		for _, msg := range res.Msgs {
			h.Game.Log.Push(h.Game.Turn, msg, "SYSTEM")
		}
		logger.Log.WithField("path", r.URL.Path).Warn("Admin cheat applied")

		// UI-команда через обычный канал, чтобы подписчики получили снимок
		h.Game.Dispatch(domain.Action{Type: domain.ActionDebug})
		writeJSON(w, res.Msgs)
	}
}

func (h *DebugHandler) handleTeleport(r *http.Request) (handlers.Result, error) {
	var p admin.TeleportPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return handlers.Result{}, err
	}
	return admin.HandleTeleport(h.Game.AdminContext(), p)
}

func (h *DebugHandler) handleHeal(r *http.Request) (handlers.Result, error) {
	return admin.HandleHeal(h.Game.AdminContext())
}

func (h *DebugHandler) handleReveal(r *http.Request) (handlers.Result, error) {
	return admin.HandleReveal(h.Game.AdminContext())
}

func (h *DebugHandler) handleSpawn(r *http.Request) (handlers.Result, error) {
	var p admin.SpawnPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return handlers.Result{}, err
	}
	return admin.HandleSpawn(h.Game.AdminContext(), p)
}

func (h *DebugHandler) handleKill(r *http.Request) (handlers.Result, error) {
	var p admin.KillPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return handlers.Result{}, err
	}
	id, err := strconv.ParseUint(p.TargetID, 10, 64)
	if err != nil {
		return handlers.Result{}, fmt.Errorf("bad target id %q: %w", p.TargetID, err)
	}
	target := h.Game.GetEntity(types.EntityID(id))
	return admin.HandleKill(h.Game.AdminContext(), target)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локальной отладки)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// nil (например, пустой список этажей) отдаем как [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
