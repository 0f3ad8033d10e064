// ABOUTME: Metadata-lookup collaborator over the node's REST endpoints
// ABOUTME: Implements loadtracks and decodetrack plus search helpers
package lavaline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/lavaline/lavaline-go/pkg/protocol"
)

// LoadResponse is the client-facing shape of a /loadtracks result. Tracks
// is empty for NO_MATCHES; PlayList is set only for PLAYLIST_LOADED.
type LoadResponse struct {
	LoadType string
	Tracks   []protocol.Track
	PlayList *protocol.PlayList
}

// Rest performs metadata lookups against the node. It is stateless beyond
// the HTTP client; the protocol handler and command API depend on its
// result shapes, not its transport.
type Rest struct {
	baseURL  string
	password string
	http     *http.Client
	log      logrus.FieldLogger
}

// NewRest creates a lookup client for the given node.
func NewRest(host string, port int, password string, secure bool, log logrus.FieldLogger) *Rest {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Rest{
		baseURL:  fmt.Sprintf("%s://%s:%d", scheme, host, port),
		password: password,
		http:     &http.Client{},
		log:      log.WithField("component", "rest"),
	}
}

// LoadTracks resolves an identifier (URL or search term understood by the
// node) into tracks. A LOAD_FAILED result surfaces as *TrackLoadError.
func (r *Rest) LoadTracks(ctx context.Context, identifier string) (*LoadResponse, error) {
	endpoint := r.baseURL + "/loadtracks?identifier=" + url.QueryEscape(identifier)

	var result protocol.LoadResult
	if err := r.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("loadtracks failed: %w", err)
	}

	switch result.LoadType {
	case protocol.LoadTypeLoadFailed:
		loadErr := &TrackLoadError{Message: "load failed", Severity: "UNKNOWN"}
		if result.Exception != nil {
			loadErr.Message = result.Exception.Message
			loadErr.Severity = result.Exception.Severity
		}
		return nil, loadErr

	case protocol.LoadTypeNoMatches:
		return &LoadResponse{LoadType: result.LoadType}, nil

	case protocol.LoadTypePlaylistLoaded:
		tracks := flatten(result.Tracks)
		playlist := &protocol.PlayList{Tracks: tracks}
		if result.PlaylistInfo != nil {
			playlist.Name = result.PlaylistInfo.Name
			playlist.SelectedTrack = result.PlaylistInfo.SelectedTrack
		}
		return &LoadResponse{LoadType: result.LoadType, Tracks: tracks, PlayList: playlist}, nil

	default:
		return &LoadResponse{LoadType: result.LoadType, Tracks: flatten(result.Tracks)}, nil
	}
}

// SearchYouTube resolves free-form words through the node's ytsearch
// source. An empty slice means no matches.
func (r *Rest) SearchYouTube(ctx context.Context, query string) ([]protocol.Track, error) {
	response, err := r.LoadTracks(ctx, "ytsearch:"+query)
	if err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// AutoLoadTracks loads a URL directly or falls back to a YouTube search for
// plain words.
func (r *Rest) AutoLoadTracks(ctx context.Context, query string) (*LoadResponse, error) {
	if strings.Contains(query, "http") {
		return r.LoadTracks(ctx, query)
	}
	tracks, err := r.SearchYouTube(ctx, query)
	if err != nil {
		return nil, err
	}
	return &LoadResponse{LoadType: protocol.LoadTypeSearchResult, Tracks: tracks}, nil
}

// DecodeTrack expands an opaque encoded handle into full track metadata.
func (r *Rest) DecodeTrack(ctx context.Context, encoded string) (protocol.Track, error) {
	endpoint := r.baseURL + "/decodetrack?track=" + url.QueryEscape(encoded)

	var info protocol.TrackInfo
	if err := r.getJSON(ctx, endpoint, &info); err != nil {
		return protocol.Track{}, fmt.Errorf("decodetrack failed: %w", err)
	}

	return protocol.LoadedTrack{Track: encoded, Info: info}.Flatten(), nil
}

// DecodeTracks expands a batch of encoded handles in one request.
func (r *Rest) DecodeTracks(ctx context.Context, encoded []string) ([]protocol.Track, error) {
	body, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/decodetracks", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", r.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("decodetracks failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("decodetracks failed: status %d", resp.StatusCode)
	}

	var loaded []protocol.LoadedTrack
	if err := json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		return nil, fmt.Errorf("failed to parse decodetracks response: %w", err)
	}
	return flatten(loaded), nil
}

// getJSON performs an authenticated GET and decodes the JSON response.
func (r *Rest) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", r.password)

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func flatten(loaded []protocol.LoadedTrack) []protocol.Track {
	tracks := make([]protocol.Track, 0, len(loaded))
	for _, lt := range loaded {
		tracks = append(tracks, lt.Flatten())
	}
	return tracks
}
