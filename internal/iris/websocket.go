package iris

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message is one chat event pushed by the bridge.
type Message struct {
	Msg    string       `json:"msg"`
	Room   string       `json:"room"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

type MessageJSON struct {
	UserID    string `json:"user_id,omitempty"`
	ChatID    string `json:"chat_id,omitempty"`
	Type      string `json:"type,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type WebSocketState string

const (
	WSStateConnecting   WebSocketState = "CONNECTING"
	WSStateConnected    WebSocketState = "CONNECTED"
	WSStateDisconnected WebSocketState = "DISCONNECTED"
	WSStateReconnecting WebSocketState = "RECONNECTING"
	WSStateFailed       WebSocketState = "FAILED"
)

type MessageHandler func(message *Message)

// WebSocket maintains the push connection to the bridge, reconnecting with a
// fixed delay up to a maximum number of attempts.
type WebSocket struct {
	wsURL                string
	conn                 *websocket.Conn
	handler              MessageHandler
	state                WebSocketState
	stateMu              sync.RWMutex
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	readerWg             sync.WaitGroup
}

func NewWebSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *WebSocket {
	return &WebSocket{
		wsURL:                wsURL,
		state:                WSStateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               logger,
		stopCh:               make(chan struct{}),
	}
}

// OnMessage sets the handler for incoming messages. Must be called before
// Connect.
func (ws *WebSocket) OnMessage(handler MessageHandler) {
	ws.handler = handler
}

func (ws *WebSocket) Connect(ctx context.Context) error {
	ws.setState(WSStateConnecting)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.String("url", ws.wsURL), zap.Error(err))
		ws.setState(WSStateDisconnected)
		return err
	}

	ws.conn = conn
	ws.reconnectAttempts = 0
	ws.setState(WSStateConnected)
	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.readerWg.Add(1)
	go ws.readLoop(ctx, conn)
	return nil
}

func (ws *WebSocket) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer ws.readerWg.Done()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ws.stopCh:
				return
			default:
			}
			ws.logger.Warn("WebSocket read failed", zap.Error(err))
			ws.setState(WSStateDisconnected)
			ws.reconnect(ctx)
			return
		}

		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			ws.logger.Warn("Failed to parse incoming message", zap.Error(err))
			continue
		}
		if ws.handler != nil {
			ws.handler(&message)
		}
	}
}

func (ws *WebSocket) reconnect(ctx context.Context) {
	for ws.reconnectAttempts < ws.maxReconnectAttempts {
		select {
		case <-ws.stopCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(ws.reconnectDelay):
		}

		ws.reconnectAttempts++
		ws.setState(WSStateReconnecting)
		ws.logger.Info("Reconnecting WebSocket",
			zap.Int("attempt", ws.reconnectAttempts),
			zap.Int("max_attempts", ws.maxReconnectAttempts))

		if err := ws.Connect(ctx); err == nil {
			return
		}
	}

	ws.logger.Error("WebSocket reconnect attempts exhausted")
	ws.setState(WSStateFailed)
}

// Stop closes the connection and waits for the reader to finish.
func (ws *WebSocket) Stop() {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
		if ws.conn != nil {
			_ = ws.conn.Close()
		}
		ws.readerWg.Wait()
		ws.setState(WSStateDisconnected)
	})
}

func (ws *WebSocket) State() WebSocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *WebSocket) setState(state WebSocketState) {
	ws.stateMu.Lock()
	ws.state = state
	ws.stateMu.Unlock()
}
