package mcp

import (
	"context"
	"testing"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/sample"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b, err := sample.Bundle()
	if err != nil {
		t.Fatal(err)
	}
	l, err := sample.Log()
	if err != nil {
		t.Fatal(err)
	}
	s := replay.NewSession(b)
	if err := s.Load(l); err != nil {
		t.Fatal(err)
	}
	return NewServer(s, "test", nil)
}

func TestHandleLogStats(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleLogStats(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Steps != 46 || out.Unknown != 0 || out.Unread != 0 {
		t.Fatalf("unexpected stats: %+v", out)
	}
	if out.ByKind[event.KindSemanticStep.String()] != 2 {
		t.Fatalf("unexpected counts by kind: %+v", out.ByKind)
	}
}

func TestHandleMoves(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, out, err := s.handleNext(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cursor != 0 || out.Len != 46 || out.Step == nil || out.Step.Index != 0 {
		t.Fatalf("unexpected move: %+v", out)
	}

	_, out, err = s.handleJump(ctx, nil, JumpInput{Cursor: 26})
	if err != nil {
		t.Fatal(err)
	}
	_, out, err = s.handleNext(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Cursor != 28 {
		t.Fatalf("the semantic step must be skipped: %+v", out)
	}

	_, out, err = s.handleSetSemantic(ctx, nil, SetSemanticInput{Enabled: true})
	if err != nil {
		t.Fatal(err)
	}
	_, out, err = s.handlePrev(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Semantic || out.Cursor != 27 {
		t.Fatalf("the semantic step must be visited: %+v", out)
	}

	_, snap, err := s.handleSnapshot(ctx, nil, EmptyInput{})
	if err != nil {
		t.Fatal(err)
	}
	if snap.Snapshot.Cursor != 27 || snap.Snapshot.SemanticStep == nil {
		t.Fatalf("unexpected snapshot: %+v", snap.Snapshot)
	}
}

func TestHandleJump_Clamps(t *testing.T) {
	tests := []struct {
		cursor int
		want   int
	}{
		{cursor: -2, want: -1},
		{cursor: -100, want: -1},
		{cursor: 46, want: 45},
		{cursor: 1000, want: 45},
	}
	s := newTestServer(t)
	for _, tt := range tests {
		_, out, err := s.handleJump(context.Background(), nil, JumpInput{Cursor: tt.cursor})
		if err != nil {
			t.Fatalf("jumping to %v must not fail: %v", tt.cursor, err)
		}
		if out.Cursor != tt.want || s.session.Cursor() != tt.want {
			t.Fatalf("jumping to %v: want %v, got %v", tt.cursor, tt.want, out.Cursor)
		}
	}
}

func TestHandleListSteps(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)
	if _, _, err := s.handleJump(ctx, nil, JumpInput{Cursor: 10}); err != nil {
		t.Fatal(err)
	}
	_, out, err := s.handleListSteps(ctx, nil, ListStepsInput{Before: 2, After: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Steps) != 4 || out.Steps[0].Index != 8 || !out.Steps[2].Current {
		t.Fatalf("unexpected steps: %+v", out.Steps)
	}

	_, out, err = s.handleListSteps(ctx, nil, ListStepsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Steps) != defaultBefore+defaultAfter {
		t.Fatalf("unexpected default window: %v", len(out.Steps))
	}

	if _, _, err := s.handleListSteps(ctx, nil, ListStepsInput{Before: -1}); err == nil {
		t.Fatal("a negative window must fail")
	}
}
