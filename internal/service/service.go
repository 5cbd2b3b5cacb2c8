// Package service связывает комнаты с внешним миром: websocket-шлюз,
// HTTP-маршруты администрирования и gRPC health.
package service

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/annelo/go-kitchen-server/internal/room"
)

// HealthService имя сервиса в gRPC health
const HealthService = "kitchen.Rooms"

// KitchenService принимает игроков и раздает их по комнатам
type KitchenService struct {
	rooms    *room.Manager
	logger   *zap.SugaredLogger
	health   *health.Server
	upgrader websocket.Upgrader
	closing  atomic.Bool
}

// NewKitchenService создает сервис поверх менеджера комнат
func NewKitchenService(rooms *room.Manager, logger *zap.SugaredLogger) *KitchenService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &KitchenService{
		rooms:  rooms,
		logger: logger,
		health: health.NewServer(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Клиенты бывают нативными и браузерными, Origin не проверяем
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(HealthService, healthpb.HealthCheckResponse_SERVING)
	return s
}

// RegisterServer регистрирует health на gRPC сервере
func (s *KitchenService) RegisterServer(grpcServer *grpc.Server) {
	healthpb.RegisterHealthServer(grpcServer, s.health)
}

// Rooms менеджер комнат, нужен админским командам
func (s *KitchenService) Rooms() *room.Manager {
	return s.rooms
}
