package admin_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annelo/go-kitchen-server/internal/admin"
	"github.com/annelo/go-kitchen-server/internal/config"
	"github.com/annelo/go-kitchen-server/internal/room"
)

func TestRegistry_RegisterExecute(t *testing.T) {
	reg := admin.NewRegistry()
	reg.Register("echo", "Echo args", func(args []string) (string, error) {
		return strings.Join(args, ",") + "\n", nil
	})
	reg.Register("fail", "Always fails", func([]string) (string, error) {
		return "", errors.New("nope")
	})

	out, err := reg.Execute("  echo a  b ")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", out)

	out, err = reg.Execute("   ")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = reg.Execute("missing")
	assert.ErrorIs(t, err, admin.ErrUnknownCommand)

	_, err = reg.Execute("fail")
	assert.EqualError(t, err, "nope")

	reg.Register("echo", "Replaced", func([]string) (string, error) { return "v2\n", nil })
	assert.Len(t, reg.Commands(), 2)
	out, _ = reg.Execute("echo")
	assert.Equal(t, "v2\n", out)
}

func TestServe_RunsLinesUntilEOF(t *testing.T) {
	reg := admin.NewRegistry()
	reg.Register("ping", "Ping", func([]string) (string, error) { return "pong\n", nil })

	var out bytes.Buffer
	reg.Serve(context.Background(), strings.NewReader("ping\nbogus\n\nping\n"), &out)
	assert.Equal(t, "> pong\n> Error: unknown command: bogus\n> > pong\n> ", out.String())
}

func TestBuiltins(t *testing.T) {
	rooms := room.NewManager(room.Options{Seed: 1})
	defer rooms.Shutdown(context.Background())
	_, err := rooms.GetOrCreate("ROOM1")
	require.NoError(t, err)

	stopped := false
	reg := admin.NewRegistry()
	admin.RegisterBuiltins(reg, admin.Deps{Rooms: rooms, Config: config.Default(), Stop: func() { stopped = true }})

	out, err := reg.Execute("help")
	require.NoError(t, err)
	for _, name := range []string{"help", "rooms", "config", "stop"} {
		assert.Contains(t, out, name+" - ")
	}

	out, err = reg.Execute("rooms")
	require.NoError(t, err)
	assert.Contains(t, out, "ROOM1 players=0/0 phase=waiting")

	out, err = reg.Execute("config")
	require.NoError(t, err)
	assert.Contains(t, out, "tick_hz: 20")

	out, err = reg.Execute("stop")
	require.NoError(t, err)
	assert.Equal(t, "Server stopping\n", out)
	assert.True(t, stopped)
}
