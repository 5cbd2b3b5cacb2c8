package service

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// sendQueueSize максимальное число кадров в очереди клиента
	sendQueueSize = 256
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 25 * time.Second
	maxFrameSize  = 64 << 10
)

var (
	errConnClosed = errors.New("connection closed")
	errQueueFull  = errors.New("send queue full")
)

// clientConn соединение клиента с двумя очередями: уведомления важнее снапшотов
type clientConn struct {
	ws          *websocket.Conn
	highQueue   chan []byte
	normalQueue chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	logger      *zap.SugaredLogger
}

func newClientConn(ws *websocket.Conn, logger *zap.SugaredLogger) *clientConn {
	return &clientConn{
		ws:          ws,
		highQueue:   make(chan []byte, sendQueueSize),
		normalQueue: make(chan []byte, sendQueueSize),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Send ставит снапшот в обычную очередь. При переполнении кадр отбрасывается:
// следующий снапшот все равно полный.
func (c *clientConn) Send(b []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.normalQueue <- b:
	default:
	}
	return nil
}

// SendHigh ставит уведомление в приоритетную очередь. Переполнение означает,
// что клиент не успевает читать, и комната его отключит.
func (c *clientConn) SendHigh(b []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.highQueue <- b:
		return nil
	default:
		return errQueueFull
	}
}

// Close завершает writeLoop; повторный вызов безопасен
func (c *clientConn) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

func (c *clientConn) write(msgType int, b []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(msgType, b)
}

// writeLoop единственный писатель в сокет
func (c *clientConn) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		var msg []byte
		select {
		case msg = <-c.highQueue:
		default:
			select {
			case msg = <-c.highQueue:
			case msg = <-c.normalQueue:
			case <-ticker.C:
				if err := c.write(websocket.PingMessage, nil); err != nil {
					_ = c.Close()
					return
				}
				continue
			case <-c.done:
				c.flushHigh()
				_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
		}
		if err := c.write(websocket.TextMessage, msg); err != nil {
			c.logger.Debugf("write to client failed: %v", err)
			_ = c.Close()
			return
		}
	}
}

// flushHigh дописывает оставшиеся уведомления перед закрытием
func (c *clientConn) flushHigh() {
	for {
		select {
		case msg := <-c.highQueue:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}
