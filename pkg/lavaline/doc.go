// ABOUTME: Package documentation for the lavaline client library
// ABOUTME: Describes the client, sessions, events and collaborators
// Package lavaline is a client for a remote Lavalink-style audio node.
//
// One Client owns a persistent WebSocket control channel and a REST
// metadata-lookup channel, and manages one session ("node") per guild:
// a track queue, volume, repeat flag and connectivity flag. Commands
// mutate the session registry and emit outbound frames; inbound node
// events are fanned out through a typed dispatcher and drive queue
// advancement at track end.
//
// Example:
//
//	client := lavaline.NewClient(lavaline.Config{
//	    Host:     "127.0.0.1",
//	    Port:     2333,
//	    Password: "youshallnotpass",
//	    UserID:   "123456789",
//	})
//	err := client.Connect(ctx)
//
//	client.Subscribe(lavaline.EventTrackEnd, func(event interface{}) {
//	    end := event.(lavaline.TrackEndEvent)
//	    log.Printf("track ended: %s (%s)", end.Track.Title, end.Reason)
//	})
//
//	tracks, err := client.Rest().SearchYouTube(ctx, "never gonna give you up")
//	err = client.Play(guildID, tracks[0], requesterID, false)
//
// Sessions are created only by VoiceUpdate (usually via
// RaiseVoiceStateUpdate / RaiseVoiceServerUpdate fed from the hosting
// application's gateway); see examples/discord-bot for a full integration.
package lavaline
