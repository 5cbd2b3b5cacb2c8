package service

import "context"

// Stop перестает принимать игроков и отключает всех во всех комнатах
func (s *KitchenService) Stop(ctx context.Context) {
	s.closing.Store(true)
	// Shutdown переводит все сервисы в NOT_SERVING
	s.health.Shutdown()

	n := s.rooms.Len()
	s.rooms.Shutdown(ctx)
	s.logger.Infof("stopped %d rooms", n)
}
