// ABOUTME: Builder for the node's audio filter payload
// ABOUTME: Accumulates filter blocks and attaches the guild id on send
package lavaline

import "github.com/lavaline/lavaline-go/pkg/protocol"

// EqualizerBand adjusts the gain of one of the node's 15 bands.
type EqualizerBand struct {
	Band int     `json:"band"`
	Gain float64 `json:"gain"`
}

// Filters accumulates a filter payload for one player. Zero or more blocks
// may be set; the node applies the whole payload atomically. The payload is
// sent verbatim, with the guild id attached by the command API.
type Filters struct {
	payload map[string]interface{}
}

// NewFilters creates an empty filter payload.
func NewFilters() *Filters {
	return &Filters{payload: map[string]interface{}{"op": protocol.OpFilters}}
}

// Volume applies a float multiplier on top of the player volume.
func (f *Filters) Volume(volume float64) *Filters {
	f.payload["volume"] = volume
	return f
}

// Equalizer replaces the equalizer band set.
func (f *Filters) Equalizer(bands []EqualizerBand) *Filters {
	f.payload["equalizer"] = bands
	return f
}

// Karaoke dampens the vocal band.
func (f *Filters) Karaoke(level, monoLevel, filterBand, filterWidth float64) *Filters {
	f.payload["karaoke"] = map[string]float64{
		"level":       level,
		"monoLevel":   monoLevel,
		"filterBand":  filterBand,
		"filterWidth": filterWidth,
	}
	return f
}

// Timescale changes speed, pitch and rate.
func (f *Filters) Timescale(speed, pitch, rate float64) *Filters {
	f.payload["timescale"] = map[string]float64{
		"speed": speed,
		"pitch": pitch,
		"rate":  rate,
	}
	return f
}

// Tremolo oscillates the volume.
func (f *Filters) Tremolo(frequency, depth float64) *Filters {
	f.payload["tremolo"] = map[string]float64{
		"frequency": frequency,
		"depth":     depth,
	}
	return f
}

// Vibrato oscillates the pitch.
func (f *Filters) Vibrato(frequency, depth float64) *Filters {
	f.payload["vibrato"] = map[string]float64{
		"frequency": frequency,
		"depth":     depth,
	}
	return f
}

// Rotation pans the audio around the listener.
func (f *Filters) Rotation(rotationHz float64) *Filters {
	f.payload["rotation"] = map[string]float64{"rotationHz": rotationHz}
	return f
}

// Distortion applies waveform distortion.
func (f *Filters) Distortion(sinOffset, sinScale, cosOffset, cosScale, tanOffset, tanScale, offset, scale float64) *Filters {
	f.payload["distortion"] = map[string]float64{
		"sinOffset": sinOffset,
		"sinScale":  sinScale,
		"cosOffset": cosOffset,
		"cosScale":  cosScale,
		"tanOffset": tanOffset,
		"tanScale":  tanScale,
		"offset":    offset,
		"scale":     scale,
	}
	return f
}

// ChannelMix mixes the left and right channels into each other.
func (f *Filters) ChannelMix(leftToLeft, leftToRight, rightToLeft, rightToRight float64) *Filters {
	f.payload["channelMix"] = map[string]float64{
		"leftToLeft":   leftToLeft,
		"leftToRight":  leftToRight,
		"rightToLeft":  rightToLeft,
		"rightToRight": rightToRight,
	}
	return f
}

// LowPass suppresses high frequencies.
func (f *Filters) LowPass(smoothing float64) *Filters {
	f.payload["lowPass"] = map[string]float64{"smoothing": smoothing}
	return f
}

// Payload returns the outbound frame with the guild id attached.
func (f *Filters) Payload(guildID string) map[string]interface{} {
	frame := make(map[string]interface{}, len(f.payload)+1)
	for k, v := range f.payload {
		frame[k] = v
	}
	frame["guildId"] = guildID
	return frame
}
