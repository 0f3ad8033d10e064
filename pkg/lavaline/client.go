// ABOUTME: Command API orchestrating guild sessions against the node
// ABOUTME: Mutates the registry and emits outbound frames per command
package lavaline

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lavaline/lavaline-go/pkg/protocol"
)

// Config holds client configuration.
type Config struct {
	// Host is the node address. Defaults to 127.0.0.1.
	Host string

	// Port is used for both the control channel and REST lookups.
	Port int

	// Password authenticates both channels.
	Password string

	// UserID is the hosting application's own user id. Voice-state
	// updates for other users are ignored.
	UserID string

	// Shards is the hosting application's shard count. Defaults to 1.
	Shards int

	// Secure switches to wss/https.
	Secure bool

	// ResumeKey and ResumeTimeout (seconds) enable control-channel
	// resuming. Zero timeout disables it; an empty key gets a fresh uuid.
	ResumeKey     string
	ResumeTimeout int

	// Logger receives library logs. Defaults to the logrus standard
	// logger.
	Logger logrus.FieldLogger
}

// ConnectionInfo correlates a voice-state update with the voice-server
// update that follows it. It exists only until the pair is bound into a
// session via a voiceUpdate frame.
type ConnectionInfo struct {
	GuildID   string
	SessionID string
	ChannelID string
}

// sender is the outbound frame primitive, satisfied by *Socket.
type sender interface {
	Send(frame interface{}) error
}

// Client manages guild sessions on a remote audio node: one persistent
// control channel, one REST lookup channel, a session registry, and an
// event dispatcher. All commands resolve the session first and report a
// missing one as ErrNodeNotFound rather than panicking.
type Client struct {
	config  Config
	log     logrus.FieldLogger
	emitter *Emitter
	rest    *Rest
	socket  *Socket
	send    sender

	// mu serializes every registry read-modify-write, including the
	// track-end advancement driven by the receive loop.
	mu       sync.Mutex
	registry Registry
	pending  map[string]*ConnectionInfo

	infoMu sync.RWMutex
	info   protocol.Info
}

// NewClient creates a client for one node. Call Connect to open the
// control channel.
func NewClient(config Config) *Client {
	if config.Host == "" {
		config.Host = "127.0.0.1"
	}
	if config.Shards == 0 {
		config.Shards = 1
	}
	if config.ResumeTimeout > 0 && config.ResumeKey == "" {
		config.ResumeKey = uuid.NewString()
	}
	log := config.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Client{
		config:   config,
		log:      log.WithField("component", "client"),
		emitter:  NewEmitter(log),
		rest:     NewRest(config.Host, config.Port, config.Password, config.Secure, log),
		registry: NewMemoryRegistry(),
		pending:  make(map[string]*ConnectionInfo),
	}
	c.socket = NewSocket(SocketConfig{
		Host:          config.Host,
		Port:          config.Port,
		Password:      config.Password,
		UserID:        config.UserID,
		Shards:        config.Shards,
		Secure:        config.Secure,
		ResumeKey:     config.ResumeKey,
		ResumeTimeout: config.ResumeTimeout,
		Logger:        log,
	}, c)
	c.send = c.socket

	return c
}

// Connect opens the control channel and starts processing inbound frames.
// Reconnection after a closed or errored channel is the caller's call, not
// automatic.
func (c *Client) Connect(ctx context.Context) error {
	return c.socket.Connect(ctx)
}

// Close tears down the control channel. Session state stays in the
// registry so a later Connect can resume against a node that honors the
// resume key.
func (c *Client) Close() {
	c.socket.Close()
}

// Rest exposes the metadata-lookup collaborator.
func (c *Client) Rest() *Rest {
	return c.rest
}

// Subscribe registers a listener for one event kind.
func (c *Client) Subscribe(kind EventType, handler Handler) {
	c.emitter.Subscribe(kind, handler)
}

// Info returns the node health snapshot from the latest stats frame.
func (c *Client) Info() protocol.Info {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return c.info
}

// Node returns the session for a guild.
func (c *Client) Node(guildID string) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.registry.Get(guildID)
	if !ok {
		return nil, nodeNotFound(guildID)
	}
	return node, nil
}

// Queue returns a copy of the guild's queue.
func (c *Client) Queue(guildID string) ([]protocol.Track, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.registry.Get(guildID)
	if !ok {
		return nil, nodeNotFound(guildID)
	}
	queue := make([]protocol.Track, len(node.Queue))
	copy(queue, node.Queue)
	return queue, nil
}

// Play enqueues a track. With force set, a play frame is sent immediately
// and the queue is left untouched (the auto-advance and repeat path).
// Otherwise the track joins the queue tail and a play frame is sent only
// when it became the sole queued item, which keeps the queue head equal to
// the currently playing track.
func (c *Client) Play(guildID string, track protocol.Track, requester string, force bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.play(guildID, track, requester, force)
}

// play is Play with c.mu held.
func (c *Client) play(guildID string, track protocol.Track, requester string, force bool) error {
	node, ok := c.registry.Get(guildID)
	if !ok {
		return c.raiseNotFound(guildID)
	}

	frame := protocol.PlayFrame{
		Op:        protocol.OpPlay,
		GuildID:   guildID,
		Track:     track.Track,
		StartTime: "0",
		NoReplace: false,
	}

	if force {
		return c.send.Send(frame)
	}

	track.Requester = requester
	node.Queue = append(node.Queue, track)
	c.registry.Set(guildID, node)

	if len(node.Queue) != 1 {
		return nil
	}
	return c.send.Send(frame)
}

// AddToQueue enqueues every track of a playlist. Each track is enqueued by
// an independent goroutine, so play-frame arrival order across tracks is
// not guaranteed; the single-track invariant still holds per call.
func (c *Client) AddToQueue(guildID string, tracks []protocol.Track, requester string) {
	for _, track := range tracks {
		go func(track protocol.Track) {
			if err := c.Play(guildID, track, requester, false); err != nil {
				c.log.WithError(err).WithField("guild", guildID).Warn("Failed to enqueue playlist track")
			}
		}(track)
	}
}

// Stop clears the queue and stops the player. An empty queue is reported
// under the not-found kind.
func (c *Client) Stop(guildID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok || len(node.Queue) == 0 {
		return c.raiseNotFound(guildID)
	}

	node.Queue = nil
	c.registry.Set(guildID, node)

	return c.send.Send(protocol.StopFrame{Op: protocol.OpStop, GuildID: guildID})
}

// Skip stops the current track and lets the node's TrackEndEvent drive the
// queue advancement. No-op on an empty queue.
func (c *Client) Skip(guildID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok {
		return c.raiseNotFound(guildID)
	}
	if len(node.Queue) == 0 {
		return nil
	}

	return c.send.Send(protocol.StopFrame{Op: protocol.OpStop, GuildID: guildID})
}

// Pause pauses or resumes the player. The node tracks the paused state;
// nothing is recorded locally.
func (c *Client) Pause(guildID string, pause bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.Get(guildID); !ok {
		return c.raiseNotFound(guildID)
	}

	return c.send.Send(protocol.PauseFrame{Op: protocol.OpPause, GuildID: guildID, Pause: pause})
}

// Seek moves the playhead to a millisecond offset. Bounds are the node's
// responsibility.
func (c *Client) Seek(guildID string, position int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.Get(guildID); !ok {
		return c.raiseNotFound(guildID)
	}

	return c.send.Send(protocol.SeekFrame{Op: protocol.OpSeek, GuildID: guildID, Position: position})
}

// Volume sets the player volume. Range is validated before any lookup or
// I/O; 0-1000 inclusive, 100 is the default.
func (c *Client) Volume(guildID string, volume int) error {
	if volume < 0 || volume > 1000 {
		return ErrVolumeOutOfRange
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok {
		return c.raiseNotFound(guildID)
	}

	node.Volume = volume
	c.registry.Set(guildID, node)

	return c.send.Send(protocol.VolumeFrame{Op: protocol.OpVolume, GuildID: guildID, Volume: volume})
}

// Repeat toggles client-side repeat. No frame is sent; repeat is enforced
// at track-end time.
func (c *Client) Repeat(guildID string, repeat bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok {
		return c.raiseNotFound(guildID)
	}

	node.Repeat = repeat
	c.registry.Set(guildID, node)
	return nil
}

// ApplyFilters sends a filter payload for the guild's player verbatim.
func (c *Client) ApplyFilters(guildID string, filters *Filters) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.registry.Get(guildID); !ok {
		return c.raiseNotFound(guildID)
	}

	return c.send.Send(filters.Payload(guildID))
}

// Shuffle randomly permutes the queue, never relocating the head: the
// currently playing track stays at index 0. Returns the updated session.
func (c *Client) Shuffle(guildID string) (*Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok {
		return nil, nodeNotFound(guildID)
	}
	if len(node.Queue) == 0 {
		return node, nil
	}

	rest := node.Queue[1:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
	c.registry.Set(guildID, node)

	return node, nil
}

// Destroy removes the session and tells the node to drop the player. The
// registry entry is removed before the frame is written; if the send fails
// the node and registry can disagree. That window is accepted rather than
// rolled back.
func (c *Client) Destroy(guildID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroy(guildID)
}

// destroy is Destroy with c.mu held.
func (c *Client) destroy(guildID string) error {
	if _, ok := c.registry.Get(guildID); !ok {
		return c.raiseNotFound(guildID)
	}

	c.registry.Remove(guildID)

	return c.send.Send(protocol.DestroyFrame{Op: protocol.OpDestroy, GuildID: guildID})
}

// VoiceUpdate binds a voice session to the node. A nil channel id is a
// disconnect signal: the session is destroyed (no-op when absent) and no
// voiceUpdate frame is sent. Otherwise the frame is sent with the endpoint
// scheme stripped and the session entry is created or overwritten with
// Connected set. This is the sole path that creates a session.
func (c *Client) VoiceUpdate(guildID, sessionID, token, endpoint string, channelID *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voiceUpdate(guildID, sessionID, token, endpoint, channelID)
}

// voiceUpdate is VoiceUpdate with c.mu held.
func (c *Client) voiceUpdate(guildID, sessionID, token, endpoint string, channelID *string) error {
	if channelID == nil {
		if _, ok := c.registry.Get(guildID); !ok {
			return nil
		}
		return c.destroy(guildID)
	}

	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "wss://"), "ws://")

	frame := protocol.VoiceUpdateFrame{
		Op:        protocol.OpVoiceUpdate,
		GuildID:   guildID,
		SessionID: sessionID,
		Event: protocol.VoiceEvent{
			Token:    token,
			GuildID:  guildID,
			Endpoint: endpoint,
		},
	}
	if err := c.send.Send(frame); err != nil {
		return err
	}

	c.registry.Set(guildID, &Node{
		GuildID:   guildID,
		Queue:     []protocol.Track{},
		Volume:    DefaultVolume,
		Connected: true,
	})
	return nil
}

// RaiseVoiceStateUpdate feeds a gateway voice-state update into the client.
// Updates for users other than the configured one are ignored. A cleared
// channel id destroys the session; otherwise the state is held until the
// matching voice-server update arrives.
func (c *Client) RaiseVoiceStateUpdate(guildID, userID, sessionID string, channelID *string) error {
	if userID != c.config.UserID {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if channelID == nil {
		delete(c.pending, guildID)
		return c.voiceUpdate(guildID, sessionID, "", "", nil)
	}

	c.pending[guildID] = &ConnectionInfo{
		GuildID:   guildID,
		SessionID: sessionID,
		ChannelID: *channelID,
	}
	return nil
}

// RaiseVoiceServerUpdate feeds a gateway voice-server update into the
// client and completes the binding started by the matching voice-state
// update. Updates with no pending state are dropped.
func (c *Client) RaiseVoiceServerUpdate(guildID, endpoint, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.pending[guildID]
	if !ok {
		return nil
	}
	return c.voiceUpdate(guildID, info.SessionID, token, endpoint, &info.ChannelID)
}

// WaitForConnection blocks until the guild's session exists. Unbounded:
// bound it with the context.
func (c *Client) WaitForConnection(ctx context.Context, guildID string) error {
	for {
		watch := c.registry.Watch()
		if _, ok := c.registry.Get(guildID); ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watch:
		}
	}
}

// WaitForRemove blocks until the guild's session is gone. Unbounded: bound
// it with the context.
func (c *Client) WaitForRemove(ctx context.Context, guildID string) error {
	for {
		watch := c.registry.Watch()
		if _, ok := c.registry.Get(guildID); !ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watch:
		}
	}
}

// raiseNotFound reports a missing session. When an EventError listener is
// registered the condition is delivered as an event and the command
// returns nil; integrations must know which mode they run in.
func (c *Client) raiseNotFound(guildID string) error {
	err := nodeNotFound(guildID)
	if c.emitter.HasListeners(EventError) {
		c.emitter.Publish(EventError, ErrorEvent{GuildID: guildID, Err: err})
		return nil
	}
	return err
}

// HandleStats overwrites the node health snapshot.
func (c *Client) HandleStats(frame protocol.StatsFrame) {
	c.infoMu.Lock()
	c.info = frame.Snapshot()
	c.infoMu.Unlock()
}

// HandlePlayerUpdate republishes the position report. No registry change.
func (c *Client) HandlePlayerUpdate(frame protocol.PlayerUpdateFrame) {
	c.emitter.Publish(EventPlayerUpdate, PlayerUpdateEvent{
		GuildID:   frame.GuildID,
		Time:      frame.State.Time,
		Position:  frame.State.Position,
		Connected: frame.State.Connected,
	})
}

// HandleEvent republishes a node event and, for track ends, advances the
// guild's queue. Called synchronously from the receive loop, so events for
// one connection are processed in wire order.
func (c *Client) HandleEvent(frame protocol.EventFrame) {
	if frame.Type == protocol.TypeWebSocketClosed {
		// Voice transport closure; the session itself stays registered.
		c.emitter.Publish(EventWebSocketClosed, WebSocketClosedEvent{
			GuildID:  frame.GuildID,
			Code:     frame.Code,
			Reason:   frame.Reason,
			ByRemote: frame.ByRemote,
		})
		return
	}

	if frame.Track == "" {
		return
	}

	track, err := c.rest.DecodeTrack(context.Background(), frame.Track)
	if err != nil {
		// Keep the opaque handle so advancement still works.
		c.log.WithError(err).WithField("guild", frame.GuildID).Warn("Failed to decode event track")
		track = protocol.Track{Track: frame.Track}
	}

	switch frame.Type {
	case protocol.TypeTrackStart:
		c.emitter.Publish(EventTrackStart, TrackStartEvent{Track: track, GuildID: frame.GuildID})

	case protocol.TypeTrackEnd:
		c.emitter.Publish(EventTrackEnd, TrackEndEvent{Track: track, GuildID: frame.GuildID, Reason: frame.Reason})
		c.advanceQueue(frame.GuildID)

	case protocol.TypeTrackException:
		c.emitter.Publish(EventTrackException, TrackExceptionEvent{
			Track:     track,
			GuildID:   frame.GuildID,
			Exception: frame.Exception,
			Message:   frame.Message,
			Severity:  frame.Severity,
			Cause:     frame.Cause,
		})

	case protocol.TypeTrackStuck:
		c.emitter.Publish(EventTrackStuck, TrackStuckEvent{
			Track:       track,
			GuildID:     frame.GuildID,
			ThresholdMs: frame.ThresholdMs,
		})

	default:
		c.log.WithField("type", frame.Type).Debug("Ignoring unknown event type")
	}
}

// advanceQueue reacts to a track ending: replay the head under repeat,
// otherwise dequeue and force-play the next head. A missing session or an
// empty queue is a no-op.
func (c *Client) advanceQueue(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.registry.Get(guildID)
	if !ok || len(node.Queue) == 0 {
		return
	}

	if node.Repeat {
		head := node.Queue[0]
		if err := c.play(guildID, head, head.Requester, true); err != nil {
			c.log.WithError(err).WithField("guild", guildID).Warn("Failed to replay track")
		}
		return
	}

	node.Queue = node.Queue[1:]
	c.registry.Set(guildID, node)

	if len(node.Queue) == 0 {
		return
	}
	head := node.Queue[0]
	if err := c.play(guildID, head, head.Requester, true); err != nil {
		c.log.WithError(err).WithField("guild", guildID).Warn("Failed to play next track")
	}
}
