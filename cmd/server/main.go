package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aether-server/internal/agent"
	"aether-server/internal/engine"
	"aether-server/internal/infrastructure/storage"
	"aether-server/internal/server"
	"aether-server/internal/version"
	"aether-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение, поверх него флаги
	cfg, err := engine.FromEnv()
	if err != nil {
		logger.Log.Fatal("Bad environment: ", err)
	}

	var seed int64
	var loadID string
	var bot bool
	flag.Int64Var(&seed, "seed", 0, "Master seed of the run (0 for random)")
	flag.StringVar(&cfg.Algorithm, "gen", cfg.Algorithm, "Floor generator: rooms or caves")
	flag.StringVar(&cfg.SavePath, "save", cfg.SavePath, "Path to the bbolt save file")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.BoolVar(&cfg.Cheats, "cheats", cfg.Cheats, "Enable /debug admin routes")
	flag.StringVar(&loadID, "load", "", "Save ID to resume from")
	flag.BoolVar(&bot, "bot", false, "Let a headless agent play the hero")
	flag.Parse()
	if seed != 0 {
		cfg.Seed = seed
	}

	logger.Log.Info("Starting Caverns of Aether...")
	logger.Log.Info(version.String())

	// 2. Хранилище сохранений: Redis, если задан адрес, иначе bbolt
	store := openStore(cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Log.WithError(err).Warn("Save store close failed")
		}
	}()

	// 3. Забег: свежий либо восстановленный из сохранения
	var svc *engine.GameService
	if loadID != "" {
		svc = resumeRun(store, loadID)
	} else {
		logger.Log.Infof("🎲 Master seed: %d", cfg.Seed)
		svc, err = engine.NewService(cfg)
		if err != nil {
			logger.Log.Fatal("Failed to create run: ", err)
		}
	}
	svc.Start()

	if bot {
		logger.Log.Info("🤖 Headless agent controls the hero")
		go agent.NewBot(svc).Run()
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 4. HTTP-сервер
	srv := server.New(svc, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")
	// Цикл гасится до слепка: автосейв снимает состояние между ходами.
	svc.Stop()
	autosave(store, svc)
	logger.Log.Info("Done.")
}

// openStore выбирает бекенд сохранений. Redis проверяется пингом:
// молча писать в мертвый инстанс хуже, чем упасть на старте.
func openStore(cfg engine.Config) storage.SaveStore {
	if cfg.RedisAddr != "" {
		store := storage.NewRedisStore(cfg.RedisAddr)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			logger.Log.Fatal("Redis unreachable: ", err)
		}
		logger.Log.Infof("💾 Saves in Redis at %s", cfg.RedisAddr)
		return store
	}

	store, err := storage.NewBoltStore(cfg.SavePath)
	if err != nil {
		logger.Log.Fatal("Failed to open save file: ", err)
	}
	logger.Log.Infof("💾 Saves in %s", cfg.SavePath)
	return store
}

// resumeRun поднимает забег из сохранения или падает: откатываться на
// свежий забег молча значило бы потерять прогресс игрока.
func resumeRun(store storage.SaveStore, id string) *engine.GameService {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := store.Get(ctx, id)
	if err != nil {
		logger.Log.Fatalf("Save %s: %v", id, err)
	}
	snap, err := storage.Decode(data)
	if err != nil {
		logger.Log.Fatalf("Save %s: %v", id, err)
	}
	svc, err := engine.RestoreService(snap)
	if err != nil {
		logger.Log.Fatalf("Save %s: %v", id, err)
	}
	logger.Log.Infof("💿 Run resumed from save %s (turn %d, depth %d)", id, svc.Turn, svc.Depth)
	return svc
}

// autosave снимает и пишет слепок забега при выключении.
func autosave(store storage.SaveStore, svc *engine.GameService) {
	snap, err := svc.Snapshot()
	if err != nil {
		logger.Log.WithError(err).Error("Snapshot failed, run not saved")
		return
	}
	data, err := storage.Encode(snap)
	if err != nil {
		logger.Log.WithError(err).Error("Encode failed, run not saved")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Put(ctx, snap.SaveID, data); err != nil {
		logger.Log.WithError(err).Error("Save write failed")
		return
	}
	logger.Log.Infof("💾 Run saved as %s (resume with -load %s)", snap.SaveID, snap.SaveID)
}
