// ABOUTME: Tests for Lavalink frame definitions
// ABOUTME: Verifies decoding of node JSON and client-facing conversions
package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEventFrameDecoding(t *testing.T) {
	raw := `{
		"op": "event",
		"type": "TrackEndEvent",
		"guildId": "645744558118547",
		"track": "QAAAjQIAJFRoZSBUcmFjaw==",
		"reason": "FINISHED"
	}`

	var frame EventFrame
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		t.Fatalf("failed to decode event frame: %v", err)
	}

	if frame.Op != OpEvent {
		t.Errorf("expected op %q, got %q", OpEvent, frame.Op)
	}
	if frame.Type != TypeTrackEnd {
		t.Errorf("expected type %q, got %q", TypeTrackEnd, frame.Type)
	}
	if frame.GuildID != "645744558118547" {
		t.Errorf("unexpected guild id %q", frame.GuildID)
	}
	if frame.Reason != "FINISHED" {
		t.Errorf("unexpected reason %q", frame.Reason)
	}
}

func TestWebSocketClosedFrameDecoding(t *testing.T) {
	raw := `{
		"op": "event",
		"type": "WebSocketClosedEvent",
		"guildId": "1",
		"code": 4006,
		"reason": "Your session is no longer valid.",
		"byRemote": true
	}`

	var frame EventFrame
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		t.Fatalf("failed to decode event frame: %v", err)
	}

	if frame.Code != 4006 {
		t.Errorf("expected code 4006, got %d", frame.Code)
	}
	if !frame.ByRemote {
		t.Error("expected byRemote to be true")
	}
	if frame.Track != "" {
		t.Errorf("expected no track handle, got %q", frame.Track)
	}
}

func TestStatsFrameSnapshot(t *testing.T) {
	raw := `{
		"op": "stats",
		"playingPlayers": 2,
		"players": 5,
		"uptime": 123456,
		"memory": {"used": 1024, "free": 2048, "allocated": 4096, "reservable": 8192}
	}`

	var frame StatsFrame
	if err := json.Unmarshal([]byte(raw), &frame); err != nil {
		t.Fatalf("failed to decode stats frame: %v", err)
	}

	info := frame.Snapshot()
	if info.PlayingPlayers != 2 || info.Players != 5 {
		t.Errorf("unexpected player counts: %+v", info)
	}
	if info.MemoryUsed != 1024 || info.MemoryFree != 2048 {
		t.Errorf("unexpected memory figures: %+v", info)
	}
	if info.Uptime != 123456 {
		t.Errorf("unexpected uptime %d", info.Uptime)
	}
}

func TestLoadedTrackFlatten(t *testing.T) {
	lt := LoadedTrack{
		Track: "encoded-handle",
		Info: TrackInfo{
			Identifier: "dQw4w9WgXcQ",
			IsSeekable: true,
			Author:     "Artist",
			Length:     212000,
			Title:      "Song",
			URI:        "https://example.com/watch?v=dQw4w9WgXcQ",
			SourceName: "youtube",
		},
	}

	track := lt.Flatten()
	if track.Track != "encoded-handle" {
		t.Errorf("expected encoded handle to carry over, got %q", track.Track)
	}
	if track.Identifier != "dQw4w9WgXcQ" || track.Title != "Song" {
		t.Errorf("metadata not flattened: %+v", track)
	}
	if !track.IsSeekable || track.Length != 212000 {
		t.Errorf("numeric metadata not flattened: %+v", track)
	}
}

func TestRequesterNeverSerialized(t *testing.T) {
	track := Track{Track: "handle", Title: "Song", Requester: "user-42"}

	data, err := json.Marshal(track)
	if err != nil {
		t.Fatalf("failed to marshal track: %v", err)
	}

	if strings.Contains(string(data), "user-42") {
		t.Errorf("requester leaked into wire form: %s", data)
	}
}

func TestPlayFrameWireShape(t *testing.T) {
	frame := PlayFrame{
		Op:        OpPlay,
		GuildID:   "42",
		Track:     "handle",
		StartTime: "0",
		NoReplace: false,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		t.Fatalf("failed to marshal play frame: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal play frame: %v", err)
	}

	if decoded["op"] != "play" {
		t.Errorf("expected op play, got %v", decoded["op"])
	}
	if decoded["guildId"] != "42" {
		t.Errorf("expected guildId as string, got %v", decoded["guildId"])
	}
	if _, ok := decoded["noReplace"]; !ok {
		t.Error("expected noReplace to be present even when false")
	}
}
