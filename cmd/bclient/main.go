package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

var (
	serverAddr   = flag.String("addr", "localhost:8080", "HTTP адрес сервера")
	roomCode     = flag.String("room", "BOTS", "Код комнаты")
	clientsCount = flag.Int("n", 4, "Количество эмулируемых клиентов")
	duration     = flag.Duration("duration", 30*time.Second, "Длительность теста")
	period       = flag.Duration("period", 100*time.Millisecond, "Пауза между действиями бота")
)

// tally считает полученные кадры по типу у всех ботов
type tally struct {
	mu     sync.Mutex
	counts map[string]int
}

func (t *tally) add(typ string) {
	t.mu.Lock()
	t.counts[typ]++
	t.mu.Unlock()
}

func main() {
	flag.Parse()
	log.Printf("Запускаем bClient: %d клиентов в комнате %s на %s в течение %s", *clientsCount, *roomCode, *serverAddr, *duration)

	var wg sync.WaitGroup
	stopCtx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	stats := &tally{counts: make(map[string]int)}
	for i := 0; i < *clientsCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runClient(stopCtx, id, stats)
		}(i)
	}

	wg.Wait()

	types := make([]string, 0, len(stats.counts))
	for typ := range stats.counts {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		log.Printf("%-20s %d", typ, stats.counts[typ])
	}
	log.Printf("bClient завершил работу")
}

func runClient(ctx context.Context, id int, stats *tally) {
	u := url.URL{Scheme: "ws", Host: *serverAddr, Path: "/ws", RawQuery: "room=" + url.QueryEscape(*roomCode)}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		log.Printf("[client %d] dial error: %v", id, err)
		return
	}
	defer ws.Close()

	send := func(typ string, payload any) error {
		b, err := protocol.Encode(typ, payload)
		if err != nil {
			return err
		}
		return ws.WriteMessage(websocket.TextMessage, b)
	}
	if err := send(protocol.MsgHello, protocol.Hello{Name: fmt.Sprintf("bot-%d", id)}); err != nil {
		log.Printf("[client %d] hello error: %v", id, err)
		return
	}

	// Станции узнаем из снапшотов
	var mu sync.Mutex
	var stations []int
	go func() {
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			env, err := protocol.DecodeEnvelope(data)
			if err != nil {
				continue
			}
			stats.add(env.T)
			switch env.T {
			case protocol.MsgState:
				st, err := protocol.DecodePayload[protocol.State](env)
				if err != nil {
					continue
				}
				ids := make([]int, 0, len(st.Stations))
				for key := range st.Stations {
					if n, err := strconv.Atoi(key); err == nil {
						ids = append(ids, n)
					}
				}
				mu.Lock()
				stations = ids
				mu.Unlock()
			case protocol.MsgRejected:
				log.Printf("[client %d] rejected: %s", id, env.P)
				return
			}
		}
	}()

	randSrc := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)))
	ticker := time.NewTicker(*period)
	defer ticker.Stop()

	pos := protocol.Vec3{}
	for {
		select {
		case <-ctx.Done():
			_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			pos.X += float64(randSrc.Intn(3) - 1)
			pos.Z += float64(randSrc.Intn(3) - 1)
			if err := send(protocol.MsgMove, protocol.Move{Position: pos, AnimationState: "walk"}); err != nil {
				return
			}

			mu.Lock()
			var target int
			if len(stations) > 0 {
				target = stations[randSrc.Intn(len(stations))]
			}
			mu.Unlock()
			if target == 0 {
				continue
			}
			if err := send(protocol.MsgInteract, protocol.Interact{ObjectID: target}); err != nil {
				return
			}
		}
	}
}
