package hls

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/grafov/m3u8"
)

const liveSyncSegments = 3

// Manifest describes a parsed source.
type Manifest struct {
	URL    string
	Levels []Level
	Live   bool
}

type segment struct {
	seq      uint64
	uri      string
	duration float64
	initURI  string
}

type mediaPlaylist struct {
	segments       []segment
	targetDuration float64
	live           bool
}

// after returns the segments with a sequence number of at least seq.
func (p mediaPlaylist) after(seq uint64) []segment {
	for i, s := range p.segments {
		if s.seq >= seq {
			return p.segments[i:]
		}
	}
	return nil
}

// startSeq is where loading begins when there is no previous position.
// Live playlists start a few segments behind the edge.
func (p mediaPlaylist) startSeq() uint64 {
	if len(p.segments) == 0 {
		return 0
	}
	if p.live && len(p.segments) > liveSyncSegments {
		return p.segments[len(p.segments)-liveSyncSegments].seq
	}
	return p.segments[0].seq
}

func (p mediaPlaylist) reloadInterval(lowLatency bool) time.Duration {
	interval := time.Duration(p.targetDuration * float64(time.Second))
	if lowLatency {
		interval /= 2
	}
	return max(interval, 500*time.Millisecond)
}

// decodePlaylist parses body as either a master or a media playlist.
// A media playlist is returned as a master with a single level pointing at base.
func decodePlaylist(body []byte, base *url.URL) ([]Level, *mediaPlaylist, error) {
	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return nil, nil, fmt.Errorf("decode playlist: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master, ok := playlist.(*m3u8.MasterPlaylist)
		if !ok {
			return nil, nil, errors.New("master playlist has unexpected type")
		}
		levels, err := masterLevels(master, base)
		return levels, nil, err
	case m3u8.MEDIA:
		media, ok := playlist.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, nil, errors.New("media playlist has unexpected type")
		}
		parsed, err := mediaSegments(media, base)
		if err != nil {
			return nil, nil, err
		}
		return []Level{{URI: base.String()}}, &parsed, nil
	default:
		return nil, nil, errors.New("unknown playlist type")
	}
}

func masterLevels(master *m3u8.MasterPlaylist, base *url.URL) ([]Level, error) {
	levels := make([]Level, 0, len(master.Variants))
	for _, v := range master.Variants {
		if v == nil || v.Iframe {
			continue
		}
		uri, err := resolve(base, v.URI)
		if err != nil {
			return nil, err
		}
		levels = append(levels, Level{
			URI:        uri,
			Bandwidth:  float64(v.Bandwidth),
			Resolution: v.Resolution,
			Codecs:     v.Codecs,
		})
	}

	if len(levels) == 0 {
		return nil, errors.New("master playlist has no variants")
	}

	sortLevels(levels)
	return levels, nil
}

func decodeMedia(body []byte, base *url.URL) (mediaPlaylist, error) {
	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return mediaPlaylist{}, fmt.Errorf("decode playlist: %w", err)
	}
	if listType != m3u8.MEDIA {
		return mediaPlaylist{}, errors.New("expected a media playlist")
	}
	media, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok {
		return mediaPlaylist{}, errors.New("media playlist has unexpected type")
	}
	return mediaSegments(media, base)
}

func mediaSegments(media *m3u8.MediaPlaylist, base *url.URL) (mediaPlaylist, error) {
	parsed := mediaPlaylist{
		targetDuration: float64(media.TargetDuration),
		live:           !media.Closed,
	}

	initURI := ""
	if media.Map != nil && media.Map.URI != "" {
		uri, err := resolve(base, media.Map.URI)
		if err != nil {
			return mediaPlaylist{}, err
		}
		initURI = uri
	}

	for i := uint(0); i < media.Count(); i++ {
		seg := media.Segments[i]
		if seg == nil {
			break
		}

		uri, err := resolve(base, seg.URI)
		if err != nil {
			return mediaPlaylist{}, err
		}

		if seg.Map != nil && seg.Map.URI != "" {
			if initURI, err = resolve(base, seg.Map.URI); err != nil {
				return mediaPlaylist{}, err
			}
		}

		parsed.segments = append(parsed.segments, segment{
			seq:      media.SeqNo + uint64(i),
			uri:      uri,
			duration: seg.Duration,
			initURI:  initURI,
		})
	}

	return parsed, nil
}

func resolve(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid playlist uri %q: %w", ref, err)
	}
	return base.ResolveReference(u).String(), nil
}
