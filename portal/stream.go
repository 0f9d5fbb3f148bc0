package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/etldl/etldl/source"
	"github.com/etldl/etldl/util"
	"github.com/grafov/m3u8"
)

// PlaylistName is the master playlist served under every stream endpoint.
const PlaylistName = "playlist.m3u8"

var chunklistPattern = regexp.MustCompile(`chunklist_(?P<media>[^/?\s]+)\.m3u8`)

var (
	ErrNoStream  = errors.New("no stream endpoint on the player page")
	ErrNoMediaID = errors.New("no chunklist in the stream playlist")
)

// ResolveStream reads the stream endpoint from the lecture player page and
// the media id from the endpoint's master playlist.
func (p *Portal) ResolveStream(ctx context.Context, video *source.Video) (source.Stream, error) {
	page, err := p.fetch(ctx, video.PlayerURL())
	if err != nil {
		return source.Stream{}, fmt.Errorf("player page: %w", err)
	}

	endpoint, ok := p.endpoint(page)
	if !ok {
		return source.Stream{}, ErrNoStream
	}

	playlist, err := p.fetch(ctx, strings.TrimRight(endpoint, "/")+"/"+PlaylistName)
	if err != nil {
		return source.Stream{}, fmt.Errorf("playlist: %w", err)
	}

	mediaID, ok := mediaID(playlist)
	if !ok {
		return source.Stream{}, ErrNoMediaID
	}

	return source.Stream{Endpoint: endpoint, MediaID: mediaID}, nil
}

func (p *Portal) endpoint(page []byte) (string, bool) {
	match := p.opts.StreamPattern.FindSubmatch(page)
	switch {
	case match == nil:
		return "", false
	case len(match) > 1:
		return string(match[1]), true
	default:
		return string(match[0]), true
	}
}

// mediaID takes the id from the first variant of a master playlist, falling
// back to a plain search for playlists the decoder rejects.
func mediaID(playlist []byte) (string, bool) {
	decoded, kind, err := m3u8.DecodeFrom(bytes.NewReader(playlist), false)
	if err == nil && kind == m3u8.MASTER {
		for _, variant := range decoded.(*m3u8.MasterPlaylist).Variants {
			if variant == nil {
				continue
			}
			if id := util.ReGroups(chunklistPattern, variant.URI)["media"]; id != "" {
				return id, true
			}
		}
	}

	id := util.ReGroups(chunklistPattern, string(playlist))["media"]
	return id, id != ""
}

func (p *Portal) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", target, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
