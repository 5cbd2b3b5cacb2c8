package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/annelo/go-kitchen-server/internal/admin"
	"github.com/annelo/go-kitchen-server/internal/catalog"
	"github.com/annelo/go-kitchen-server/internal/config"
	"github.com/annelo/go-kitchen-server/internal/events"
	"github.com/annelo/go-kitchen-server/internal/layout"
	"github.com/annelo/go-kitchen-server/internal/room"
	"github.com/annelo/go-kitchen-server/internal/service"
)

var (
	configPath = flag.String("config", "", "YAML файл конфигурации")
	envFile    = flag.String("env", ".env", "Файл переменных окружения")
	httpAddr   = flag.String("http", "", "Адрес HTTP/websocket сервера (перекрывает конфиг)")
	grpcAddr   = flag.String("grpc", "", "Адрес gRPC health сервера (перекрывает конфиг)")
	layoutPath = flag.String("layout", "", "Файл карты кухни (перекрывает конфиг)")
	seed       = flag.Int64("seed", 0, "Сид для заказов (0 = случайный для каждой комнаты)")
	noConsole  = flag.Bool("no-console", false, "Не запускать консоль администратора")
)

func newLogger(cfg config.Log) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Dev {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func main() {
	// Парсим флаги командной строки
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}
	// Флаги важнее файла и окружения
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}
	if *grpcAddr != "" {
		cfg.GRPC.Addr = *grpcAddr
	}
	if *layoutPath != "" {
		cfg.Layout.Path = *layoutPath
	}

	zl, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Не удалось создать логгер: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	reg := catalog.DefaultRegistry()
	lay, err := layout.Load(cfg.Layout.Path)
	if err != nil {
		logger.Fatalf("layout: %v", err)
	}
	if err := lay.Validate(reg); err != nil {
		logger.Fatalf("layout %q: %v", lay.Name, err)
	}
	logger.Infof("kitchen %q loaded: %d stations, map hash %s", lay.Name, len(lay.Stations), lay.Hash())

	// События матча уходят в NATS, если он настроен
	var sink events.Sink = events.Discard
	var emitter *events.Emitter
	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warnf("NATS unavailable at %s, events disabled: %v", cfg.NATS.URL, err)
		} else {
			emitter = events.NewEmitter(pub, logger, 1024)
			sink = emitter
			logger.Infof("publishing match events to %s", cfg.NATS.URL)
		}
	}

	opts := room.OptionsFromConfig(cfg, reg, lay, sink, logger)
	opts.Seed = *seed
	rooms := room.NewManager(opts)
	svc := service.NewKitchenService(rooms, logger)

	// Создаем контекст, который отменяется сигналом или командой stop
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("HTTP/websocket listening on %s", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("http server: %v", err)
			cancel()
		}
	}()

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logger.Fatalf("grpc listen %s: %v", cfg.GRPC.Addr, err)
	}
	grpcServer := grpc.NewServer()
	svc.RegisterServer(grpcServer)
	// Включаем reflection для инструментов вроде grpcurl
	reflection.Register(grpcServer)
	go func() {
		logger.Infof("gRPC health listening on %s", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Errorf("grpc server: %v", err)
		}
	}()

	// CLI для администратора
	if !*noConsole {
		console := admin.NewRegistry()
		admin.RegisterBuiltins(console, admin.Deps{Rooms: rooms, Config: cfg, Stop: cancel})
		go console.Serve(ctx, os.Stdin, os.Stdout)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	svc.Stop(shutdownCtx)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	if emitter != nil {
		if err := emitter.Close(); err != nil {
			logger.Warnf("events close: %v", err)
		}
	}
	logger.Info("server stopped")
}
