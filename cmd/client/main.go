package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nsf/termbox-go"

	"github.com/annelo/go-kitchen-server/internal/layout"
	"github.com/annelo/go-kitchen-server/pkg/protocol"
)

var (
	serverAddr = flag.String("server", "localhost:8080", "Адрес сервера и порт")
	roomCode   = flag.String("room", "", "Код комнаты")
	playerName = flag.String("name", "Cook", "Имя игрока")
	layoutPath = flag.String("layout", "", "Файл карты кухни (пусто = встроенная)")
)

// ClientState содержит состояние клиента
type ClientState struct {
	mu             sync.RWMutex
	ws             *websocket.Conn
	writeMu        sync.Mutex
	playerID       string
	room           string
	state          protocol.State
	selected       int
	serverMessages []string
	gameOver       *protocol.GameOver
}

func newClientState(ws *websocket.Conn) *ClientState {
	return &ClientState{
		ws:             ws,
		serverMessages: []string{"Подключение к серверу..."},
	}
}

// addServerMessage добавляет сообщение в начало списка
func (cs *ClientState) addServerMessage(message string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.serverMessages = append([]string{message}, cs.serverMessages...)
	if len(cs.serverMessages) > 5 {
		cs.serverMessages = cs.serverMessages[:5]
	}
}

func (cs *ClientState) send(typ string, payload any) {
	b, err := protocol.Encode(typ, payload)
	if err != nil {
		return
	}
	cs.writeMu.Lock()
	defer cs.writeMu.Unlock()
	if err := cs.ws.WriteMessage(websocket.TextMessage, b); err != nil {
		cs.addServerMessage(fmt.Sprintf("Ошибка отправки: %v", err))
	}
}

// stationIDs возвращает id станций по возрастанию
func (cs *ClientState) stationIDs() []int {
	ids := make([]int, 0, len(cs.state.Stations))
	for key := range cs.state.Stations {
		if id, err := strconv.Atoi(key); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (cs *ClientState) moveSelection(delta int) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	n := len(cs.state.Stations)
	if n == 0 {
		return
	}
	cs.selected = (cs.selected + delta + n) % n
}

func (cs *ClientState) interact() {
	cs.mu.RLock()
	ids := cs.stationIDs()
	var target int
	if cs.selected < len(ids) {
		target = ids[cs.selected]
	}
	cs.mu.RUnlock()
	if target != 0 {
		cs.send(protocol.MsgInteract, protocol.Interact{ObjectID: target})
	}
}

// processInput обрабатывает ввод с клавиатуры
func processInput(cs *ClientState) {
	for {
		switch ev := termbox.PollEvent(); ev.Type {
		case termbox.EventKey:
			switch ev.Key {
			case termbox.KeyEsc, termbox.KeyCtrlC:
				return
			case termbox.KeyArrowUp:
				cs.moveSelection(-1)
			case termbox.KeyArrowDown:
				cs.moveSelection(1)
			case termbox.KeySpace, termbox.KeyEnter:
				cs.interact()
			}
			switch ev.Ch {
			case 'w', 'k':
				cs.moveSelection(-1)
			case 's', 'j':
				cs.moveSelection(1)
			case 'q':
				return
			}
		case termbox.EventInterrupt:
			return
		case termbox.EventError:
			log.Printf("Ошибка терминала: %v", ev.Err)
			return
		}
	}
}

// processServerMessages читает кадры сервера до разрыва соединения
func processServerMessages(cs *ClientState) {
	for {
		_, data, err := cs.ws.ReadMessage()
		if err != nil {
			cs.addServerMessage(fmt.Sprintf("Соединение закрыто: %v", err))
			return
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			continue
		}
		switch env.T {
		case protocol.MsgState:
			st, err := protocol.DecodePayload[protocol.State](env)
			if err != nil {
				continue
			}
			cs.mu.Lock()
			cs.state = st
			cs.mu.Unlock()
		case protocol.MsgChat:
			if c, err := protocol.DecodePayload[protocol.Chat](env); err == nil {
				cs.addServerMessage(fmt.Sprintf("%s: %s", c.Name, c.Text))
			}
		case protocol.MsgGameOver:
			if g, err := protocol.DecodePayload[protocol.GameOver](env); err == nil {
				cs.mu.Lock()
				cs.gameOver = &g
				cs.mu.Unlock()
				cs.addServerMessage(fmt.Sprintf("Игра окончена! Счет: %d", g.FinalScore))
			}
		case protocol.MsgWelcome, protocol.MsgRejected:
		default:
			// остальные типы - уведомления кухни
			n, _ := protocol.DecodePayload[protocol.Notice](env)
			msg := env.T
			if n.Message != "" {
				msg += ": " + n.Message
			}
			cs.addServerMessage(msg)
		}
	}
}

func renderKitchen(cs *ClientState) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	width, height := termbox.Size()
	st := cs.state

	header := fmt.Sprintf("Комната %s | %s | осталось %ds | счет %d", cs.room, st.Phase, st.TimeLeft/1000, st.Score)
	if cs.gameOver != nil {
		header = fmt.Sprintf("Комната %s | игра окончена | итоговый счет %d", cs.room, cs.gameOver.FinalScore)
	}
	drawText(0, 0, width, header, termbox.ColorWhite, termbox.ColorDefault)
	if me, ok := st.Players[cs.playerID]; ok {
		hands := me.HeldIngredient
		if me.HoldingPlate {
			hands += " + тарелка"
		}
		drawText(0, 1, width, "В руках: "+hands, termbox.ColorYellow, termbox.ColorDefault)
	}

	y := 3
	for i, id := range cs.stationIDs() {
		if y >= height-10 {
			break
		}
		s := st.Stations[strconv.Itoa(id)]
		line := fmt.Sprintf("%9d %-13s", id, s.Type)
		if s.Ingredient != "None" {
			line += " " + s.Ingredient
		}
		if len(s.Board) > 0 {
			line += " [" + strings.Join(s.Board, ", ") + "]"
		}
		if s.ProcessingRecipeID != "" {
			line += fmt.Sprintf(" готовится %.1fs", float64(s.ProcessingTimeLeft)/1000)
		}
		if s.HasDirtyPlate {
			line += " грязная тарелка"
		}
		fg, bg := termbox.ColorWhite, termbox.ColorDefault
		if s.Disabled {
			fg = termbox.ColorDarkGray
		}
		if i == cs.selected {
			fg, bg = termbox.ColorBlack, termbox.ColorCyan
		}
		drawText(0, y, width, line, fg, bg)
		y++
	}

	y++
	drawText(0, y, width, "----- Заказы -----", termbox.ColorWhite, termbox.ColorDefault)
	y++
	for _, o := range st.Orders {
		if o.Completed {
			continue
		}
		drawText(0, y, width, fmt.Sprintf("место %d: %s (%s) %ds", o.ChairID, o.RecipeID, o.CustomerType, o.TimeLeft/1000), termbox.ColorGreen, termbox.ColorDefault)
		y++
	}

	msgY := height - 7
	drawText(0, msgY, width, "----- Сообщения -----", termbox.ColorWhite, termbox.ColorDefault)
	for i, msg := range cs.serverMessages {
		drawText(0, msgY+1+i, width, msg, termbox.ColorCyan, termbox.ColorDefault)
	}
	drawText(0, height-1, width, "↑/↓ выбрать станцию, Enter/Space действие, Esc выход", termbox.ColorWhite, termbox.ColorDefault)
	termbox.Flush()
}

func drawText(x, y, maxWidth int, text string, fg, bg termbox.Attribute) {
	i := 0
	for _, ch := range text {
		if x+i >= maxWidth {
			return
		}
		termbox.SetCell(x+i, y, ch, fg, bg)
		i++
	}
}

func main() {
	flag.Parse()

	lay, err := layout.Load(*layoutPath)
	if err != nil {
		log.Fatalf("Не удалось загрузить карту: %v", err)
	}

	u := url.URL{Scheme: "ws", Host: *serverAddr, Path: "/ws"}
	if *roomCode != "" {
		u.RawQuery = "room=" + url.QueryEscape(*roomCode)
	}
	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Не удалось подключиться к серверу: %v", err)
	}
	defer ws.Close()

	cs := newClientState(ws)
	cs.send(protocol.MsgHello, protocol.Hello{Name: *playerName, Room: *roomCode})

	// Первый кадр: welcome или отказ
	_, data, err := ws.ReadMessage()
	if err != nil {
		log.Fatalf("Ошибка при подключении к игре: %v", err)
	}
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		log.Fatalf("Некорректный ответ сервера: %v", err)
	}
	if env.T != protocol.MsgWelcome {
		log.Fatalf("Не удалось подключиться к игре: %s", env.P)
	}
	welcome, err := protocol.DecodePayload[protocol.Welcome](env)
	if err != nil {
		log.Fatalf("Некорректный welcome: %v", err)
	}
	// Другая карта означает другие id станций
	if welcome.MapHash != lay.Hash() {
		log.Fatalf("Карта сервера (%s) не совпадает с локальной (%s)", welcome.MapHash, lay.Hash())
	}
	cs.playerID = welcome.PlayerID
	cs.room = welcome.Room
	cs.addServerMessage(fmt.Sprintf("Успешное подключение! Комната %s", welcome.Room))

	if err := termbox.Init(); err != nil {
		log.Fatalf("Не удалось инициализировать терминал: %v", err)
	}
	defer termbox.Close()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		termbox.Interrupt()
	}()

	go processServerMessages(cs)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				renderKitchen(cs)
			}
		}
	}()

	processInput(cs)
	close(done)

	cs.writeMu.Lock()
	_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	cs.writeMu.Unlock()
	termbox.Close()
	log.Println("Клиент завершает работу")
}
