// ABOUTME: WebSocket control channel to the audio node
// ABOUTME: Handles connection, frame classification, and outbound sends
package lavaline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lavaline/lavaline-go/pkg/protocol"
)

// clientName identifies this library to the node.
const clientName = "lavaline-go/1.0.0"

// SocketStatus is the control channel connection state.
type SocketStatus int

const (
	// StatusDisconnected means Connect has not been called yet.
	StatusDisconnected SocketStatus = iota
	// StatusConnecting means the dial is in flight.
	StatusConnecting
	// StatusConnected means the receive loop is running.
	StatusConnected
	// StatusClosed means the remote closed the channel cleanly.
	StatusClosed
	// StatusErrored means the channel died from a transport failure.
	StatusErrored
)

// FrameHandler consumes classified inbound frames. The receive loop calls
// it synchronously, one frame at a time, so implementations observe frames
// in wire order.
type FrameHandler interface {
	HandleStats(frame protocol.StatsFrame)
	HandlePlayerUpdate(frame protocol.PlayerUpdateFrame)
	HandleEvent(frame protocol.EventFrame)
}

// SocketConfig holds the control channel settings.
type SocketConfig struct {
	Host     string
	Port     int
	Password string
	UserID   string
	Shards   int
	Secure   bool

	// ResumeKey and ResumeTimeout enable session resuming when
	// ResumeTimeout is positive. An empty key gets a generated one.
	ResumeKey     string
	ResumeTimeout int

	Logger logrus.FieldLogger
}

// Socket owns the single persistent connection to the node. Reconnection
// is deliberate: after the channel reaches Closed or Errored the owner must
// call Connect again.
type Socket struct {
	config  SocketConfig
	handler FrameHandler
	log     logrus.FieldLogger

	mu     sync.RWMutex
	wmu    sync.Mutex
	conn   *websocket.Conn
	status SocketStatus
}

// NewSocket creates a control channel for the given node. Frames received
// after Connect are delivered to handler.
func NewSocket(config SocketConfig, handler FrameHandler) *Socket {
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Socket{
		config:  config,
		handler: handler,
		log:     log.WithField("component", "socket"),
		status:  StatusDisconnected,
	}
}

// Connect dials the node and starts the receive loop. When resuming is
// enabled the resume configuration is negotiated before any frame is read.
func (s *Socket) Connect(ctx context.Context) error {
	scheme := "ws"
	if s.config.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)}

	s.mu.Lock()
	s.status = StatusConnecting
	s.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), s.header())
	if err != nil {
		s.mu.Lock()
		s.status = StatusErrored
		s.mu.Unlock()
		return fmt.Errorf("dial failed: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.status = StatusConnected
	s.mu.Unlock()

	s.log.WithField("node", u.Host).Info("Control channel connected")

	if s.config.ResumeTimeout > 0 {
		frame := protocol.ConfigureResumingFrame{
			Op:      protocol.OpConfigureResuming,
			Key:     s.config.ResumeKey,
			Timeout: s.config.ResumeTimeout,
		}
		if err := s.Send(frame); err != nil {
			s.Close()
			return fmt.Errorf("failed to configure resuming: %w", err)
		}
	}

	go s.readLoop()

	return nil
}

// header builds the authentication headers the node expects.
func (s *Socket) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", s.config.Password)
	h.Set("User-Id", s.config.UserID)
	h.Set("Client-Name", clientName)
	h.Set("Num-Shards", fmt.Sprintf("%d", s.config.Shards))
	if s.config.ResumeTimeout > 0 {
		h.Set("Resume-Key", s.config.ResumeKey)
	}
	return h
}

// readLoop receives frames until the channel dies. Each frame is handled to
// completion before the next read, so inbound frames never reorder.
func (s *Socket) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.finish(err)
			return
		}
		s.dispatch(data)
	}
}

// finish records why the receive loop stopped.
func (s *Socket) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusConnected {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		s.status = StatusClosed
		s.log.Info("Control channel closed by node")
	} else {
		s.status = StatusErrored
		s.log.WithError(err).Error("Control channel failed")
	}
	s.conn.Close()
}

// dispatch classifies one inbound frame by its op discriminator.
func (s *Socket) dispatch(data []byte) {
	var envelope struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		s.log.WithError(err).Error("Failed to parse inbound frame")
		return
	}

	switch envelope.Op {
	case protocol.OpStats:
		var frame protocol.StatsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.WithError(err).Error("Failed to parse stats frame")
			return
		}
		s.handler.HandleStats(frame)

	case protocol.OpPlayerUpdate:
		var frame protocol.PlayerUpdateFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.WithError(err).Error("Failed to parse playerUpdate frame")
			return
		}
		s.handler.HandlePlayerUpdate(frame)

	case protocol.OpEvent:
		var frame protocol.EventFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.log.WithError(err).Error("Failed to parse event frame")
			return
		}
		s.handler.HandleEvent(frame)

	default:
		s.log.WithField("op", envelope.Op).Debug("Ignoring unknown frame")
	}
}

// Send serializes and transmits one outbound frame. Fire-and-forget: there
// is no acknowledgement beyond the node's own event stream.
func (s *Socket) Send(frame interface{}) error {
	s.mu.RLock()
	conn, status := s.conn, s.status
	s.mu.RUnlock()

	if status != StatusConnected {
		return fmt.Errorf("control channel not connected")
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	return conn.WriteJSON(frame)
}

// Close tears the connection down. The receive loop exits on its next read.
func (s *Socket) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusConnected {
		s.status = StatusClosed
		s.conn.Close()
		s.log.Info("Control channel closed")
	}
}

// Status returns the connection state.
func (s *Socket) Status() SocketStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// IsConnected reports whether the receive loop is live.
func (s *Socket) IsConnected() bool {
	return s.Status() == StatusConnected
}
