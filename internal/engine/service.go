package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"aether-server/internal/core/rng"
	"aether-server/internal/core/types"
	"aether-server/internal/domain"
	"aether-server/internal/engine/handlers"
	"aether-server/internal/engine/handlers/actions"
	"aether-server/internal/network"
	"aether-server/pkg/dungeon"
	"aether-server/pkg/logger"
)

// GameService - один забег целиком: арена сущностей, этажи, потоки
// случайности, машина фаз и журнал. Симуляция строго однопоточна;
// канал команд сериализует внешний мир, а консоль и тесты зовут
// SubmitIntent напрямую.
type GameService struct {
	Cfg Config

	Arena  *Arena
	Floors map[int]*domain.Floor
	Depth  int

	PlayerID types.EntityID

	// Потоки случайности. Root никогда не тянет значений сам - от него
	// только форкают; поэтому потоки этажей воспроизводимы в любой
	// момент и в сейв не попадают. Combat и AIStream продвигаются по
	// ходу забега, их состояние сохраняется.
	Root     *rng.Stream
	Combat   *rng.Stream
	AIStream *rng.Stream

	Phase Phase
	Turn  int

	Log *MessageLog
	Hub *network.Broadcaster

	// LastErr - фатальный сбой симуляции (этаж не сгенерировался).
	LastErr error

	CommandChan chan domain.Action
	quit        chan struct{}
	done        chan struct{}

	registry map[domain.ActionType]handlers.HandlerFunc
	queue    []domain.Action

	playerActs   int
	pendingDelta int
	winRequested bool

	// Таблица опознания забега: какие виды расходников уже раскрыты и
	// какие скрытые этикетки им выпали.
	identified   map[string]bool
	hiddenLabels map[string]string

	algo dungeon.Algorithm
}

// NewService собирает новый забег: корневой поток из сида, форки
// подсистем, первый этаж, герой на входе.
func NewService(cfg Config) (*GameService, error) {
	algo, err := dungeon.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	root := rng.NewStream(cfg.Seed, "root")
	s := &GameService{
		Cfg:         cfg,
		Arena:       NewArena(cfg.ShardID),
		Floors:      make(map[int]*domain.Floor),
		Depth:       1,
		Root:        root,
		Combat:      root.Fork("combat"),
		AIStream:    root.Fork("ai"),
		Phase:       PhaseAwaitingInput,
		Turn:        1,
		Log:         &MessageLog{},
		Hub:         network.NewBroadcaster(),
		CommandChan: make(chan domain.Action, 64),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		identified:  make(map[string]bool),
		algo:        algo,
	}
	s.hiddenLabels = rollHiddenLabels(root.Fork("identify"))
	s.registerHandlers()

	if err := s.buildInitialRun(); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"seed":      cfg.Seed,
		"algorithm": cfg.Algorithm,
	}).Info("Run created")
	return s, nil
}

func (s *GameService) registerHandlers() {
	s.registry = map[domain.ActionType]handlers.HandlerFunc{
		domain.ActionMove:     actions.HandleMove,
		domain.ActionAttack:   actions.HandleAttack,
		domain.ActionWait:     actions.HandleWait,
		domain.ActionPickup:   actions.HandlePickup,
		domain.ActionDrop:     actions.HandleDrop,
		domain.ActionUse:      actions.HandleUse,
		domain.ActionEquip:    actions.HandleEquip,
		domain.ActionUnequip:  actions.HandleUnequip,
		domain.ActionCast:     actions.HandleCast,
		domain.ActionInteract: actions.HandleInteract,
		domain.ActionDescend:  actions.HandleDescend,
		domain.ActionAscend:   actions.HandleAscend,
	}
}

// GetEntity резолвит ID через арену. Реализует EntityFinder систем
// и обработчиков.
func (s *GameService) GetEntity(id types.EntityID) *domain.Entity {
	return s.Arena.Lookup(id)
}

// Player - сущность героя, nil после его гибели и уборки.
func (s *GameService) Player() *domain.Entity {
	return s.Arena.Lookup(s.PlayerID)
}

// CurrentFloor - этаж, на котором идет симуляция.
func (s *GameService) CurrentFloor() *domain.Floor {
	return s.Floors[s.Depth]
}

// floorStreams выводит именованные потоки этажа из корневого. Форк не
// сдвигает родителя, так что тройка восстановима когда угодно.
func (s *GameService) floorStreams(depth int) (gen, spawn, loot *rng.Stream) {
	gen = s.Root.Fork(fmt.Sprintf("floor:%d", depth))
	spawn = s.Root.Fork(fmt.Sprintf("spawn:%d", depth))
	loot = s.Root.Fork(fmt.Sprintf("loot:%d", depth))
	return gen, spawn, loot
}

// materializeFloor генерирует этаж и вселяет его население в арену.
func (s *GameService) materializeFloor(depth int) error {
	gen, spawnStream, lootStream := s.floorStreams(depth)
	res, err := dungeon.Generate(depth, s.algo, gen)
	if err != nil {
		return err
	}

	f := res.Floor
	s.Floors[depth] = f
	for _, e := range dungeon.Populate(f, spawnStream, lootStream) {
		s.Arena.Spawn(e)
		f.AddEntity(e)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"depth":     depth,
		"attempts":  res.Attempts,
		"entities":  len(f.SpatialHash),
	}).Info("Floor materialized")
	return nil
}

// handlerContext собирает окружение обработчика для конкретного актера.
func (s *GameService) handlerContext(actor *domain.Entity) handlers.Context {
	return handlers.Context{
		Floor:   s.CurrentFloor(),
		Actor:   actor,
		Player:  s.Player(),
		Finder:  s,
		Combat:  s.Combat,
		Spawn:   s.spawnOnFloor,
		Despawn: s.despawn,
		Queue: func(a domain.Action) {
			s.queue = append(s.queue, a)
		},
		Identify: s.markIdentified,
		RequestTransition: func(delta int) {
			s.pendingDelta = delta
		},
		RequestWin: func() {
			s.winRequested = true
		},
	}
}

// AdminContext - окружение обработчика с героем в роли актера, для
// административных ручек /debug. Читы дергают обработчики напрямую,
// мимо цикла забега, так что годятся только для локальной отладки.
func (s *GameService) AdminContext() handlers.Context {
	return s.handlerContext(s.Player())
}

// spawnOnFloor вводит сущность в мир: арена выдает ID, этаж - место.
func (s *GameService) spawnOnFloor(e *domain.Entity) *domain.Entity {
	s.Arena.Spawn(e)
	if f, ok := s.Floors[e.Depth]; ok {
		f.AddEntity(e)
	}
	return e
}

// despawn гасит сущность насовсем: вон из этажа, вон из арены.
func (s *GameService) despawn(e *domain.Entity) {
	if f, ok := s.Floors[e.Depth]; ok {
		f.RemoveEntity(e)
	}
	s.Arena.Destroy(e.ID)
}

// markIdentified раскрывает вид расходника до конца забега и
// доопознает все его экземпляры, где бы они ни лежали.
func (s *GameService) markIdentified(kindID string) {
	if kindID == "" || s.identified[kindID] {
		return
	}
	s.identified[kindID] = true
	s.Arena.Each(func(e *domain.Entity) bool {
		if e.Item != nil && e.Item.KindID == kindID {
			e.Item.Identified = true
		}
		if e.Inventory != nil {
			for _, it := range e.Inventory.Items {
				if it != nil && it.KindID == kindID {
					it.Identified = true
				}
			}
		}
		return true
	})
}

// monstersOn собирает мобов этажа в порядке создания. Список
// фиксируется до обхода: призванные в этом ходу не действуют.
func (s *GameService) monstersOn(depth int) []*domain.Entity {
	var out []*domain.Entity
	for _, e := range s.Arena.Query(domain.CompAI) {
		if e.Kind == types.KindMonster && e.Depth == depth {
			out = append(out, e)
		}
	}
	return out
}

// actorsOn - живые актеры этажа (герой и мобы) в порядке создания.
func (s *GameService) actorsOn(depth int) []*domain.Entity {
	var out []*domain.Entity
	for _, e := range s.Arena.Query(domain.CompStats) {
		if e.Depth == depth && e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// Start запускает игровой цикл фоном.
func (s *GameService) Start() {
	go s.Run()
}

// Run - последовательный цикл забега: одно намерение за раз, после
// каждого - свежий снимок подписчикам. UI-команды не доходят до
// планировщика и просто получают снимок.
func (s *GameService) Run() {
	logger.Log.WithField("component", "engine").Info("Game loop started")
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case a := <-s.CommandChan:
			if a.Type.IsUIOnly() {
				s.publishUpdate()
				continue
			}
			if err := s.SubmitIntent(a); err != nil && !errors.Is(err, handlers.ErrInvalidIntent) {
				logger.Log.WithError(err).Warn("Intent dispatch failed")
			}
			s.publishUpdate()
		}
	}
}

// Stop гасит цикл забега и дожидается его выхода: после возврата
// состояние можно снимать без гонки с доигровкой намерения.
func (s *GameService) Stop() {
	close(s.quit)
	<-s.done
}

// Dispatch передает намерение циклу забега.
func (s *GameService) Dispatch(a domain.Action) {
	s.CommandChan <- a
}

// publishUpdate рассылает свежий снимок всем подписчикам.
func (s *GameService) publishUpdate() {
	if s.Hub.SubscriberCount() == 0 {
		return
	}
	s.Hub.Broadcast(*s.BuildSnapshot())
}
