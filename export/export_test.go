package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/vmihailenco/msgpack/v5"
)

func newSession(t *testing.T, opts ...replay.Option) *replay.Session {
	t.Helper()
	bp := &blueprint.Bundle{
		AST: &blueprint.AST{
			Nodes: []*blueprint.ASTNode{
				{ID: 0, NodeID: 7, Label: "program"},
			},
		},
	}
	s := replay.NewSession(bp, opts...)
	zero := 0
	err := s.Load(event.NewLog("parse",
		event.ScopeCreated{TableID: 0, Name: "global", ParentID: &zero},
		event.SemanticStep{RuleNo: 1, StepNo: 1},
		event.SymbolAdded{ScopeID: 0, Name: "i", Type: "int"},
		event.ASTNodeCreated{NodeID: 7},
	))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFrames(t *testing.T) {
	s := newSession(t)
	s.Jump(2)
	frames := Frames(s)
	want := []int{-1, 0, 2, 3}
	if len(frames) != len(want) {
		t.Fatalf("unexpected frame count: want: %v, got: %v", len(want), len(frames))
	}
	for i, f := range frames {
		if f.Cursor != want[i] {
			t.Fatalf("frame #%v: want: %v, got: %v", i, want[i], f.Cursor)
		}
	}
	if s.Cursor() != 2 {
		t.Fatalf("the cursor must be restored: %v", s.Cursor())
	}

	s = newSession(t, replay.WithSemantic(true))
	if n := len(Frames(s)); n != 5 {
		t.Fatalf("every position must be exported with semantic stepping: %v", n)
	}
}

func TestWrite_Msgpack(t *testing.T) {
	s := newSession(t)
	var buf bytes.Buffer
	if err := Write(&buf, s, FormatMsgpack); err != nil {
		t.Fatal(err)
	}
	h, frames, err := ReadFrames(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if h.Version != Version || h.Phase != "parse" || h.Steps != 4 || h.Frames != 4 || h.Semantic {
		t.Fatalf("unexpected header: %+v", h)
	}
	last := frames[len(frames)-1]
	if last.Cursor != 3 || last.Len != 4 {
		t.Fatalf("unexpected last frame: %+v", last)
	}
	if last.Scopes == nil || len(last.Scopes.Scopes) != 1 || len(last.Scopes.Scopes[0].Symbols) != 1 {
		t.Fatalf("unexpected scopes: %+v", last.Scopes)
	}
	if last.AST == nil || len(last.AST.Nodes) != 1 || last.AST.Nodes[0].Label != "program" {
		t.Fatalf("unexpected ast: %+v", last.AST)
	}
	if frames[0].Step != nil {
		t.Fatalf("the first frame is before the start")
	}
}

func TestReadFrames_Version(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&Header{Version: Version + 1}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadFrames(&buf); !errors.Is(err, ErrVersion) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadFrames_Truncated(t *testing.T) {
	tests := []struct {
		caption string
		frames  uint32
		encode  int
	}{
		{caption: "huge frame count", frames: 4000000000, encode: 0},
		{caption: "fewer frames than declared", frames: 3, encode: 2},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var buf bytes.Buffer
			enc := msgpack.NewEncoder(&buf)
			if err := enc.Encode(&Header{Version: Version, Frames: tt.frames}); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < tt.encode; i++ {
				if err := enc.Encode(&replay.Snapshot{Cursor: i - 1}); err != nil {
					t.Fatal(err)
				}
			}
			if _, _, err := ReadFrames(&buf); err == nil {
				t.Fatal("a truncated export must fail")
			}
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	s := newSession(t)

	var buf bytes.Buffer
	if err := Write(&buf, s, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Header Header            `json:"header"`
		Frames []json.RawMessage `json:"frames"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Header.Frames != 4 || len(doc.Frames) != 4 {
		t.Fatalf("unexpected document: %+v", doc.Header)
	}

	buf.Reset()
	if err := Write(&buf, s, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	lines := 0
	sc := bufio.NewScanner(&buf)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines++
	}
	if lines != 5 {
		t.Fatalf("an NDJSON export has a header line and one line per frame: %v", lines)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		src  string
		want Format
		err  bool
	}{
		{src: "json", want: FormatJSON},
		{src: " NDJSON ", want: FormatNDJSON},
		{src: "msgpack", want: FormatMsgpack},
		{src: "xml", err: true},
	}
	for _, tt := range tests {
		f, err := ParseFormat(tt.src)
		if tt.err {
			if err == nil {
				t.Fatalf("%q: an error must be returned", tt.src)
			}
			continue
		}
		if err != nil || f != tt.want {
			t.Fatalf("%q: want: %v, got: %v (%v)", tt.src, tt.want, f, err)
		}
	}
}
