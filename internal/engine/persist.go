package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aether-server/internal/core/rng"
	"aether-server/internal/domain"
	"aether-server/internal/infrastructure/storage"
	"aether-server/internal/network"
	"aether-server/internal/systems"
	"aether-server/pkg/dungeon"
)

// Snapshot снимает сериализуемое состояние забега. Снимать можно в
// любой фазе, но осмысленно - между ходами: очередь доигровки всегда
// пуста к этому моменту и в сейв не входит.
func (s *GameService) Snapshot() (*storage.Snapshot, error) {
	streams := make(map[string]json.RawMessage, 3)
	for name, st := range map[string]*rng.Stream{
		"root":   s.Root,
		"combat": s.Combat,
		"ai":     s.AIStream,
	} {
		raw, err := json.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %s stream: %w", name, err)
		}
		streams[name] = raw
	}

	var entities []*domain.Entity
	s.Arena.Each(func(e *domain.Entity) bool {
		entities = append(entities, e)
		return true
	})

	identified := make(map[string]bool, len(s.identified))
	for k, v := range s.identified {
		identified[k] = v
	}
	labels := make(map[string]string, len(s.hiddenLabels))
	for k, v := range s.hiddenLabels {
		labels[k] = v
	}

	return &storage.Snapshot{
		SaveID:      uuid.NewString(),
		CreatedAt:   time.Now().Unix(),
		Seed:        s.Cfg.Seed,
		Algorithm:   s.Cfg.Algorithm,
		HeroName:    s.Cfg.HeroName,
		Turn:        s.Turn,
		Phase:       uint8(s.Phase),
		Depth:       s.Depth,
		PlayerID:    s.PlayerID,
		PlayerActs:  s.playerActs,
		Streams:     streams,
		Identified:  identified,
		Labels:      labels,
		Floors:      s.Floors,
		Entities:    entities,
		Generations: s.Arena.Generations(),
		Log:         s.Log.Entries(),
	}, nil
}

// RestoreService поднимает забег из снапшота. Индексы и кэши, не
// попавшие в сейв, пересобираются здесь; продолжение забега обязано
// совпасть байт в байт с непрерванным прогоном того же сида и тех же
// намерений.
func RestoreService(snap *storage.Snapshot) (*GameService, error) {
	cfg := NewConfig()
	cfg.Seed = snap.Seed
	cfg.Algorithm = snap.Algorithm
	// Шард вшит в каждый сохраненный ID; новые сущности продолжают его.
	cfg.ShardID = snap.PlayerID.Shard()
	if snap.HeroName != "" {
		cfg.HeroName = snap.HeroName
	}

	algo, err := dungeon.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	s := &GameService{
		Cfg:          cfg,
		Floors:       snap.Floors,
		Depth:        snap.Depth,
		PlayerID:     snap.PlayerID,
		Phase:        Phase(snap.Phase),
		Turn:         snap.Turn,
		Log:          &MessageLog{},
		Hub:          network.NewBroadcaster(),
		CommandChan:  make(chan domain.Action, 64),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
		playerActs:   snap.PlayerActs,
		identified:   snap.Identified,
		hiddenLabels: snap.Labels,
		algo:         algo,
	}
	if s.Floors == nil {
		s.Floors = make(map[int]*domain.Floor)
	}
	if s.identified == nil {
		s.identified = make(map[string]bool)
	}
	s.registerHandlers()
	s.Log.Restore(snap.Log)

	for name, dst := range map[string]**rng.Stream{
		"root":   &s.Root,
		"combat": &s.Combat,
		"ai":     &s.AIStream,
	} {
		raw, ok := snap.Streams[name]
		if !ok {
			return nil, fmt.Errorf("save is missing %s stream", name)
		}
		st := &rng.Stream{}
		if err := json.Unmarshal(raw, st); err != nil {
			return nil, err
		}
		*dst = st
	}

	s.Arena = RestoreArena(cfg.ShardID, snap.Generations, snap.Entities)

	// Пересборка производного состояния: пространственные индексы,
	// бонусы экипировки, грязная видимость.
	for depth, f := range s.Floors {
		f.Depth = depth
		f.RebuildIndex(snap.Entities)
	}
	for _, e := range snap.Entities {
		if e.Stats != nil && e.Equipment != nil {
			systems.RecomputeEquipBonuses(e.Stats, e.Equipment)
		}
		if e.Vision != nil {
			e.Vision.Dirty = true
			e.Vision.Cached = nil
		}
	}
	return s, nil
}
