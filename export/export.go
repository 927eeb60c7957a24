// Package export writes the snapshots of every reachable cursor position of a session.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/nihei9/vartrace/replay"
	"github.com/vmihailenco/msgpack/v5"
)

const Version = 1

type Format string

const (
	FormatJSON    = Format("json")
	FormatNDJSON  = Format("ndjson")
	FormatMsgpack = Format("msgpack")
)

const maxPreallocFrames = 1024

var ErrVersion = errors.New("unsupported export version")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatNDJSON, FormatMsgpack:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format: %q (json, ndjson, msgpack)", s)
}

type Header struct {
	Version  int    `json:"version" msgpack:"version"`
	Phase    string `json:"phase" msgpack:"phase"`
	Steps    uint32 `json:"steps" msgpack:"steps"`
	Frames   uint32 `json:"frames" msgpack:"frames"`
	Semantic bool   `json:"semantic" msgpack:"semantic"`
}

type document struct {
	Header *Header            `json:"header"`
	Frames []*replay.Snapshot `json:"frames"`
}

// Frames returns the snapshot of every position the cursor of the session can rest on, from
// -1 to the end of the log. Positions that the semantic skip policy makes unreachable are left
// out. The cursor of the session is restored afterwards.
func Frames(s *replay.Session) []*replay.Snapshot {
	saved := s.Cursor()
	defer s.Jump(saved)

	var frames []*replay.Snapshot
	for i := -1; i < s.Len(); i++ {
		if s.Jump(i) != i {
			continue
		}
		frames = append(frames, s.Snapshot())
	}
	return frames
}

func newHeader(s *replay.Session, frames []*replay.Snapshot) (*Header, error) {
	steps, err := safecast.Conv[uint32](s.Len())
	if err != nil {
		return nil, fmt.Errorf("too many steps: %w", err)
	}
	n, err := safecast.Conv[uint32](len(frames))
	if err != nil {
		return nil, fmt.Errorf("too many frames: %w", err)
	}
	return &Header{
		Version:  Version,
		Phase:    s.Log().Phase(),
		Steps:    steps,
		Frames:   n,
		Semantic: s.Semantic(),
	}, nil
}

// Write writes the frames of the session in the format.
func Write(w io.Writer, s *replay.Session, format Format) error {
	frames := Frames(s)
	h, err := newHeader(s, frames)
	if err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&document{
			Header: h,
			Frames: frames,
		})
	case FormatNDJSON:
		enc := json.NewEncoder(w)
		if err := enc.Encode(h); err != nil {
			return err
		}
		for _, f := range frames {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
		return nil
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		if err := enc.Encode(h); err != nil {
			return err
		}
		for _, f := range frames {
			if err := enc.Encode(f); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown export format: %q", format)
}

// ReadFrames reads a msgpack export.
func ReadFrames(r io.Reader) (*Header, []*replay.Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	h := &Header{}
	if err := dec.Decode(h); err != nil {
		return nil, nil, fmt.Errorf("Cannot read the export header: %w", err)
	}
	if h.Version != Version {
		return nil, nil, fmt.Errorf("%w: %v", ErrVersion, h.Version)
	}
	// h.Frames comes from the stream and may be wrong.
	frames := make([]*replay.Snapshot, 0, min(h.Frames, maxPreallocFrames))
	for i := uint32(0); i < h.Frames; i++ {
		f := &replay.Snapshot{}
		if err := dec.Decode(f); err != nil {
			return nil, nil, fmt.Errorf("Cannot read frame #%v: %w", i, err)
		}
		frames = append(frames, f)
	}
	return h, frames, nil
}
