package websocket

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/pkg/streaming"
)

const (
	defaultSendBuffer = 10_000
	ackChSize         = 16
	maxReconnect      = 10
	maxBackoff        = 30 * time.Second
	writeWait         = 10 * time.Second
	ackTimeout        = 10 * time.Second
	pingPeriod        = 30 * time.Second
	pongWait          = 75 * time.Second
)

// connection manages a websocket connection with a single write goroutine.
type connection struct {
	mu           sync.Mutex
	conn         *ws.Conn
	sendCh       chan []byte
	ackCh        chan streaming.AckMessage
	done         chan struct{} // closed on shutdown
	closed       bool
	reconnecting bool

	wsURL string
	token string

	// Cached review.start message for reconnect replay.
	cachedStart []byte

	dropped atomic.Uint64

	logger zerolog.Logger
}

func newConnection(bufSize int, logger zerolog.Logger) *connection {
	if bufSize <= 0 {
		bufSize = defaultSendBuffer
	}
	return &connection{
		sendCh: make(chan []byte, bufSize),
		ackCh:  make(chan streaming.AckMessage, ackChSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// dial connects to the hub and starts the read/write loops.
func (c *connection) dial(rawURL, token string) error {
	c.wsURL = rawURL
	c.token = token

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.writeLoop()
	go c.readLoop()

	return nil
}

// dialOnce performs a single websocket dial with the token query param.
func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// writeLoop drains sendCh and writes messages to the websocket, pinging the
// hub between messages to keep the connection alive. Only one writeLoop
// runs at a time; it returns on error or shutdown.
func (c *connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()

			if conn == nil {
				continue
			}

			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn().Err(err).Msg("Websocket SetWriteDeadline error")
				go c.reconnect()
				return
			}
			if err := conn.WriteMessage(ws.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Websocket ping error")
				go c.reconnect()
				return
			}
		case data := <-c.sendCh:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()

			if conn == nil {
				continue
			}

			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn().Err(err).Msg("Websocket SetWriteDeadline error")
				go c.reconnect()
				return
			}
			if err := conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.logger.Warn().Err(err).Msg("Websocket write error")
				go c.reconnect()
				return
			}
		}
	}
}

// readLoop reads ack messages from the hub and routes them to ackCh. Pongs
// extend the read deadline; a hub that stops answering pings times the
// connection out and triggers a reconnect.
func (c *connection) readLoop() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn().Err(err).Msg("Websocket read error")
			go c.reconnect()
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil {
			c.logger.Debug().Str("raw", string(message)).Msg("Non-ack message received")
			continue
		}

		if ack.Type == streaming.TypeAck {
			select {
			case c.ackCh <- ack:
			default:
				c.logger.Debug().Str("for", ack.For).Msg("Ack channel full, dropping")
			}
		}
	}
}

// reconnect attempts to re-establish the connection with exponential
// backoff. On success it replays the cached review.start message and
// restarts the read/write loops. Only one reconnect runs at a time.
func (c *connection) reconnect() {
	c.mu.Lock()
	if c.closed || c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	backoff := time.Second
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		default:
		}

		c.logger.Info().Int("attempt", attempt).Dur("backoff", backoff).Msg("Reconnecting to websocket")
		time.Sleep(backoff)

		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn().Int("attempt", attempt).Err(err).Msg("Reconnect dial failed")
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		cached := c.cachedStart
		c.mu.Unlock()

		// Replay review.start so the hub knows which review this feed carries.
		if cached != nil {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to set deadline for review.start replay")
				_ = conn.Close()
				continue
			}
			if err := conn.WriteMessage(ws.TextMessage, cached); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to replay review.start after reconnect")
				_ = conn.Close()
				continue
			}
		}

		c.logger.Info().Int("attempt", attempt).Msg("Websocket reconnected")
		go c.writeLoop()
		go c.readLoop()
		return
	}

	c.logger.Error().Int("maxAttempts", maxReconnect).Msg("Websocket reconnect failed after max attempts")
}

// send pushes data to the write loop. Non-blocking; drops and counts if the
// channel is full.
func (c *connection) send(data []byte) {
	select {
	case c.sendCh <- data:
	default:
		dropped := c.dropped.Add(1)
		c.logger.Warn().Uint64("dropped", dropped).Msg("Websocket send channel full, dropping message")
	}
}

// sendAndWait sends data and blocks until the hub acknowledges with a
// matching ack message or the timeout expires.
func (c *connection) sendAndWait(data []byte, ackFor string, timeout time.Duration) error {
	c.send(data)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ack := <-c.ackCh:
			if ack.For == ackFor {
				return nil
			}
			// Not our ack, keep waiting.
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a websocket close frame and shuts down all goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		)
		return conn.Close()
	}
	return nil
}
