// ABOUTME: Lavalink control-channel frame definitions
// ABOUTME: Defines structs for all inbound and outbound JSON frames
package protocol

// Op discriminator values carried by every control-channel frame.
const (
	OpPlay              = "play"
	OpStop              = "stop"
	OpPause             = "pause"
	OpSeek              = "seek"
	OpVolume            = "volume"
	OpDestroy           = "destroy"
	OpFilters           = "filters"
	OpVoiceUpdate       = "voiceUpdate"
	OpConfigureResuming = "configureResuming"
	OpStats             = "stats"
	OpPlayerUpdate      = "playerUpdate"
	OpEvent             = "event"
)

// Event sub-type values for frames with op "event".
const (
	TypeTrackStart      = "TrackStartEvent"
	TypeTrackEnd        = "TrackEndEvent"
	TypeTrackException  = "TrackExceptionEvent"
	TypeTrackStuck      = "TrackStuckEvent"
	TypeWebSocketClosed = "WebSocketClosedEvent"
)

// Load result types returned by the /loadtracks endpoint.
const (
	LoadTypeTrackLoaded    = "TRACK_LOADED"
	LoadTypePlaylistLoaded = "PLAYLIST_LOADED"
	LoadTypeSearchResult   = "SEARCH_RESULT"
	LoadTypeNoMatches      = "NO_MATCHES"
	LoadTypeLoadFailed     = "LOAD_FAILED"
)

// Track is a single playable item. The encoded handle is opaque to the
// client and only meaningful to the node; the remaining fields are the
// decoded metadata. Requester is attached client-side at enqueue time and
// never crosses the wire.
type Track struct {
	Track      string `json:"track"`
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	SourceName string `json:"sourceName"`
	Title      string `json:"title"`
	URI        string `json:"uri"`

	Requester string `json:"-"`
}

// PlayList groups the tracks of a playlist-loaded result.
type PlayList struct {
	Name          string
	SelectedTrack int
	Tracks        []Track
}

// Info is the node health snapshot delivered by stats frames. It is
// overwritten wholesale on every frame.
type Info struct {
	PlayingPlayers int
	Players        int
	Uptime         int64
	MemoryUsed     int64
	MemoryFree     int64
}

// PlayFrame starts playback of an encoded track.
type PlayFrame struct {
	Op        string `json:"op"`
	GuildID   string `json:"guildId"`
	Track     string `json:"track"`
	StartTime string `json:"startTime"`
	NoReplace bool   `json:"noReplace"`
}

// StopFrame stops the current track.
type StopFrame struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
}

// PauseFrame pauses or resumes the current track.
type PauseFrame struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
	Pause   bool   `json:"pause"`
}

// SeekFrame moves the playhead, in milliseconds.
type SeekFrame struct {
	Op       string `json:"op"`
	GuildID  string `json:"guildId"`
	Position int64  `json:"position"`
}

// VolumeFrame sets the player volume (0-1000).
type VolumeFrame struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
	Volume  int    `json:"volume"`
}

// DestroyFrame tells the node to drop the player and all its data.
type DestroyFrame struct {
	Op      string `json:"op"`
	GuildID string `json:"guildId"`
}

// VoiceUpdateFrame forwards voice-server credentials to the node so it can
// join the voice endpoint on the client's behalf.
type VoiceUpdateFrame struct {
	Op        string     `json:"op"`
	GuildID   string     `json:"guildId"`
	SessionID string     `json:"sessionId"`
	Event     VoiceEvent `json:"event"`
}

// VoiceEvent is the voice-server payload nested in a voiceUpdate frame.
type VoiceEvent struct {
	Token    string `json:"token"`
	GuildID  string `json:"guild_id"`
	Endpoint string `json:"endpoint"`
}

// ConfigureResumingFrame negotiates session resuming with the node.
type ConfigureResumingFrame struct {
	Op      string `json:"op"`
	Key     string `json:"key"`
	Timeout int    `json:"timeout"`
}

// StatsFrame is the op "stats" payload.
type StatsFrame struct {
	Op             string      `json:"op"`
	PlayingPlayers int         `json:"playingPlayers"`
	Players        int         `json:"players"`
	Uptime         int64       `json:"uptime"`
	Memory         StatsMemory `json:"memory"`
}

// StatsMemory is the memory block of a stats frame.
type StatsMemory struct {
	Used       int64 `json:"used"`
	Free       int64 `json:"free"`
	Allocated  int64 `json:"allocated"`
	Reservable int64 `json:"reservable"`
}

// Snapshot converts a stats frame into the client-facing Info form.
func (f StatsFrame) Snapshot() Info {
	return Info{
		PlayingPlayers: f.PlayingPlayers,
		Players:        f.Players,
		Uptime:         f.Uptime,
		MemoryUsed:     f.Memory.Used,
		MemoryFree:     f.Memory.Free,
	}
}

// PlayerUpdateFrame is the op "playerUpdate" payload: a periodic position
// report for one guild's player.
type PlayerUpdateFrame struct {
	Op      string      `json:"op"`
	GuildID string      `json:"guildId"`
	State   PlayerState `json:"state"`
}

// PlayerState is the state block of a playerUpdate frame.
type PlayerState struct {
	Time      int64 `json:"time"`
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
}

// EventFrame is the op "event" payload. Only the fields matching the
// frame's Type are populated by the node; the rest stay zero.
type EventFrame struct {
	Op      string `json:"op"`
	Type    string `json:"type"`
	GuildID string `json:"guildId"`
	Track   string `json:"track"`

	// TrackEndEvent and WebSocketClosedEvent
	Reason string `json:"reason"`

	// TrackExceptionEvent
	Exception *TrackException `json:"exception"`
	Message   string          `json:"message"`
	Severity  string          `json:"severity"`
	Cause     string          `json:"cause"`

	// TrackStuckEvent
	ThresholdMs int64 `json:"thresholdMs"`

	// WebSocketClosedEvent
	Code     int  `json:"code"`
	ByRemote bool `json:"byRemote"`
}

// TrackException is the structured exception object some nodes attach to
// TrackExceptionEvent frames in addition to the flat fields.
type TrackException struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// LoadResult is the response shape of the /loadtracks endpoint.
type LoadResult struct {
	LoadType     string         `json:"loadType"`
	PlaylistInfo *PlaylistInfo  `json:"playlistInfo,omitempty"`
	Tracks       []LoadedTrack  `json:"tracks"`
	Exception    *LoadException `json:"exception,omitempty"`
}

// PlaylistInfo names a playlist-loaded result.
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// LoadedTrack pairs an encoded handle with its metadata as returned by
// /loadtracks. Flatten turns it into the client-facing Track form.
type LoadedTrack struct {
	Track string    `json:"track"`
	Info  TrackInfo `json:"info"`
}

// TrackInfo is the decoded metadata block of a loaded track. It is also the
// response shape of GET /decodetrack.
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	SourceName string `json:"sourceName"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
}

// LoadException carries the node's report of a failed load.
type LoadException struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Flatten merges the encoded handle and its metadata into a Track.
func (lt LoadedTrack) Flatten() Track {
	return Track{
		Track:      lt.Track,
		Identifier: lt.Info.Identifier,
		IsSeekable: lt.Info.IsSeekable,
		Author:     lt.Info.Author,
		Length:     lt.Info.Length,
		IsStream:   lt.Info.IsStream,
		Position:   lt.Info.Position,
		SourceName: lt.Info.SourceName,
		Title:      lt.Info.Title,
		URI:        lt.Info.URI,
	}
}
