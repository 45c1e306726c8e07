package stream

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
	"beach-vision/internal/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = (pongWait * 9) / 10
	sendBuffer = 8
)

type client struct {
	conn   *websocket.Conn
	format Format
	send   chan []byte
}

// Hub раздаёт отчёты подключённым websocket-клиентам.
// Медленный клиент теряет кадры, но не тормозит цикл восприятия.
type Hub struct {
	codec   *Codec
	logger  *logger.Logger
	clients map[*client]struct{}
	mu      sync.RWMutex
}

var _ port.ReportPublisher = (*Hub)(nil)

func NewHub(codec *Codec, log *logger.Logger) *Hub {
	return &Hub{
		codec:   codec,
		logger:  log,
		clients: make(map[*client]struct{}),
	}
}

// Register подключает клиента и запускает его циклы записи и чтения.
func (h *Hub) Register(conn *websocket.Conn, format Format) {
	c := &client{conn: conn, format: format, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Websocket client connected (%s). Total: %d", format, total)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("Websocket client disconnected. Total: %d", total)
}

// Publish кодирует отчёт один раз на формат и ставит в очередь каждому клиенту.
func (h *Hub) Publish(ctx context.Context, report *entity.DetectionReport) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	encoded := make(map[Format][]byte, 2)
	for c := range h.clients {
		payload, ok := encoded[c.format]
		if !ok {
			var err error
			payload, err = h.codec.Encode(c.format, report)
			if err != nil {
				return err
			}
			encoded[c.format] = payload
		}
		select {
		case c.send <- payload:
		default:
			h.logger.Warning("Websocket client is slow, frame %d dropped", report.FrameSeq)
		}
	}
	return nil
}

// ClientCount число подключённых клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех клиентов.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	messageType := websocket.TextMessage
	if c.format == FormatCBOR {
		messageType = websocket.BinaryMessage
	}

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(messageType, payload); err != nil {
				h.logger.Error("Error sending report: %v", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump нужен только для pong и обнаружения разрыва; входящие сообщения игнорируются.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
