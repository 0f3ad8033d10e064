// ABOUTME: Event kinds and payloads delivered to application listeners
// ABOUTME: One variant per inbound node notification plus an error fallback
package lavaline

import "github.com/lavaline/lavaline-go/pkg/protocol"

// EventType names one kind of asynchronous notification. The set is closed:
// the dispatcher only ever publishes the kinds below.
type EventType string

const (
	// EventPlayerUpdate is a periodic position report for a guild player.
	EventPlayerUpdate EventType = "playerUpdate"
	// EventTrackStart confirms the node started playing a track.
	EventTrackStart EventType = "TrackStartEvent"
	// EventTrackEnd reports a track finishing for any reason.
	EventTrackEnd EventType = "TrackEndEvent"
	// EventTrackException reports a non-fatal playback error.
	EventTrackException EventType = "TrackExceptionEvent"
	// EventTrackStuck reports a track that stopped making progress.
	EventTrackStuck EventType = "TrackStuckEvent"
	// EventWebSocketClosed reports the node's voice transport closing. It
	// does not imply the session was destroyed.
	EventWebSocketClosed EventType = "WebSocketClosedEvent"
	// EventError is the fallback channel for command errors when the
	// application prefers listeners over returned errors.
	EventError EventType = "error"
)

// PlayerUpdateEvent mirrors an inbound playerUpdate frame.
type PlayerUpdateEvent struct {
	GuildID   string
	Time      int64
	Position  int64
	Connected bool
}

// TrackStartEvent confirms a play frame took effect.
type TrackStartEvent struct {
	Track   protocol.Track
	GuildID string
}

// TrackEndEvent reports the end of a track. Reason is the node's verbatim
// end reason (FINISHED, LOAD_FAILED, STOPPED, REPLACED, CLEANUP).
type TrackEndEvent struct {
	Track   protocol.Track
	GuildID string
	Reason  string
}

// TrackExceptionEvent carries the node's exception report verbatim.
type TrackExceptionEvent struct {
	Track     protocol.Track
	GuildID   string
	Exception *protocol.TrackException
	Message   string
	Severity  string
	Cause     string
}

// TrackStuckEvent reports a stalled track and the node's stall threshold.
type TrackStuckEvent struct {
	Track       protocol.Track
	GuildID     string
	ThresholdMs int64
}

// WebSocketClosedEvent reports closure of the node's voice transport for a
// guild. Session state in the registry is left untouched.
type WebSocketClosedEvent struct {
	GuildID  string
	Code     int
	Reason   string
	ByRemote bool
}

// ErrorEvent wraps a command error delivered through the dispatcher
// instead of a return value.
type ErrorEvent struct {
	GuildID string
	Err     error
}
