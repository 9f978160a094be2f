package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/socialoop/partyhost/broadcast"
	"github.com/socialoop/partyhost/config"
	"github.com/socialoop/partyhost/engine"
	"github.com/socialoop/partyhost/game"
	"github.com/socialoop/partyhost/games"
	"github.com/socialoop/partyhost/gateway"
	"github.com/socialoop/partyhost/logger"
	"github.com/socialoop/partyhost/monitor"
	"github.com/socialoop/partyhost/persistence"
	"github.com/socialoop/partyhost/rpc"
	"github.com/socialoop/partyhost/services"
)

func main() {
	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	mon := monitor.NewMonitor("partyhost")
	if cfg.Server.MetricsAddress != "" {
		mon.StartServer(cfg.Server.MetricsAddress)
	}

	// 内容源：内置种子打底，数据库包可选叠加
	sources := []persistence.Source{persistence.NewSeedSource()}
	if cfg.Database.Enabled {
		db, err := persistence.NewGormSource(
			cfg.Database.Postgres.Host,
			cfg.Database.Postgres.Port,
			cfg.Database.Postgres.User,
			cfg.Database.Postgres.Password,
			cfg.Database.Postgres.DBName,
		)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		sources = append(sources, db)
		logger.Log.Info("Database connection successful.")
	}

	content, err := services.NewContentService(sources...)
	if err != nil {
		logger.Log.Fatalf("Failed to load content: %v", err)
	}
	logger.Log.Infow("Content loaded", "counts", content.Counts())

	registry := game.NewRegistry()
	if err := games.RegisterAll(registry, content); err != nil {
		logger.Log.Fatalf("Failed to register games: %v", err)
	}

	// 广播链：本地 Hub 固定在链上，NATS 中继可选
	hub := gateway.NewHub()
	var bcast broadcast.Broadcaster = hub
	if cfg.NATS.Enabled {
		nc, err := broadcast.Connect(cfg.NATS.URL)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer nc.Close()
		bcast = broadcast.NewMulti(hub, broadcast.NewNATSBroadcaster(nc, cfg.NATS.SubjectPrefix))
		logger.Log.Infow("NATS relay enabled", "url", cfg.NATS.URL)
	}

	overrides := make(map[game.Phase]time.Duration)
	for name, d := range cfg.Engine.PhaseOverrides {
		phase, ok := game.ParsePhase(name)
		if !ok {
			logger.Log.Fatalf("Unknown phase %q in engine.phase_overrides", name)
		}
		overrides[phase] = d
	}

	eng := engine.NewEngine(engine.Options{
		Registry:       registry,
		Broadcaster:    bcast,
		Monitor:        mon,
		MaxRooms:       cfg.Engine.MaxRooms,
		GracePeriod:    cfg.Engine.GracePeriod,
		ReapInterval:   cfg.Engine.ReapInterval,
		PhaseOverrides: overrides,
	})

	gw := gateway.NewGateway(gateway.Options{
		Addr:    cfg.Server.HTTPAddress,
		Engine:  eng,
		Monitor: mon,
		Hub:     hub,
	})

	rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress, eng)
	if err != nil {
		logger.Log.Fatalf("Failed to start RPC server: %v", err)
	}
	go rpcServer.Start()

	go func() {
		if err := gw.Start(); err != nil {
			logger.Log.Fatalf("Gateway failed: %v", err)
		}
	}()
	logger.Log.Infof("Party host running on %s, game types: %v", cfg.Server.HTTPAddress, eng.GameTypes())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gw.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Gateway shutdown error: %v", err)
	}
	rpcServer.Stop()
	eng.Close()
	logger.Log.Info("Shutdown complete.")
}
