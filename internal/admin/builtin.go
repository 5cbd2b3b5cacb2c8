package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/annelo/go-kitchen-server/internal/config"
	"github.com/annelo/go-kitchen-server/internal/room"
)

// Deps то, с чем работают встроенные команды
type Deps struct {
	Rooms  *room.Manager
	Config config.Config
	Stop   func()
}

// RegisterBuiltins добавляет help, rooms, config и stop
func RegisterBuiltins(r *Registry, deps Deps) {
	r.Register("help", "List commands", func([]string) (string, error) {
		var sb strings.Builder
		for _, c := range r.Commands() {
			fmt.Fprintf(&sb, "%s - %s\n", c.Name, c.Description)
		}
		return sb.String(), nil
	})
	r.Register("rooms", "List rooms with players, phase and score", func([]string) (string, error) {
		infos := deps.Rooms.List()
		if len(infos) == 0 {
			return "No rooms\n", nil
		}
		var sb strings.Builder
		for _, info := range infos {
			fmt.Fprintf(&sb, "%s players=%d/%d phase=%s score=%d left=%s\n",
				info.Code, info.Connected, info.Players, info.Phase, info.Score,
				(time.Duration(info.TimeLeft) * time.Millisecond).Round(time.Second))
		}
		return sb.String(), nil
	})
	r.Register("config", "Show effective configuration", func([]string) (string, error) {
		return deps.Config.YAML()
	})
	r.Register("stop", "Stop server", func([]string) (string, error) {
		if deps.Stop != nil {
			deps.Stop()
		}
		return "Server stopping\n", nil
	})
}
