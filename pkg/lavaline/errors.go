// ABOUTME: Error taxonomy for the lavaline client
// ABOUTME: Defines node-not-found, volume-range and track-load errors
package lavaline

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound reports a command addressed to a guild with no session in
// the registry. Commands with an empty-queue precondition reuse it.
var ErrNodeNotFound = errors.New("node not found")

// ErrVolumeOutOfRange reports a volume outside the 0-1000 range. It is
// raised before any lookup or I/O.
var ErrVolumeOutOfRange = errors.New("volume may range from 0 to 1000")

// nodeNotFound wraps ErrNodeNotFound with the offending guild id.
func nodeNotFound(guildID string) error {
	return fmt.Errorf("guild %s: %w", guildID, ErrNodeNotFound)
}

// TrackLoadError carries the node's report of a failed /loadtracks call.
type TrackLoadError struct {
	Message  string
	Severity string
}

func (e *TrackLoadError) Error() string {
	return fmt.Sprintf("track load failed (%s): %s", e.Severity, e.Message)
}
