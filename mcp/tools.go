package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
)

const (
	defaultBefore = 5
	defaultAfter  = 10
	maxWindow     = 200
)

type EmptyInput struct{}

type JumpInput struct {
	Cursor int `json:"cursor" jsonschema:"step index to move to; -1 is before the first step and out-of-range values are clamped"`
}

type SetSemanticInput struct {
	Enabled bool `json:"enabled" jsonschema:"whether the cursor stops on semantic steps"`
}

type ListStepsInput struct {
	Before int `json:"before,omitempty" jsonschema:"number of steps before the cursor"`
	After  int `json:"after,omitempty" jsonschema:"number of steps after the cursor"`
}

type LogStatsOutput struct {
	Phase    string         `json:"phase"`
	Steps    int            `json:"steps"`
	Unknown  int            `json:"unknown"`
	Unread   int            `json:"unread"`
	Scopes   int            `json:"scopes"`
	Symbols  int            `json:"symbols"`
	ASTNodes int            `json:"ast_nodes"`
	ByKind   map[string]int `json:"by_kind"`
}

type SnapshotOutput struct {
	Snapshot *replay.Snapshot `json:"snapshot"`
}

type MoveOutput struct {
	Cursor   int          `json:"cursor"`
	Len      int          `json:"len"`
	Semantic bool         `json:"semantic"`
	Step     *replay.Step `json:"step,omitempty"`
}

type StepOutput struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
	Current bool   `json:"current,omitempty"`
}

type ListStepsOutput struct {
	Cursor int          `json:"cursor"`
	Steps  []StepOutput `json:"steps"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "log_stats",
		Description: "Count the steps of the loaded trace by kind",
	}, s.handleLogStats)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "snapshot",
		Description: "Return the symbol tables, AST, parser stack and active rule at the cursor",
	}, s.handleSnapshot)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "jump",
		Description: "Move the cursor to a step",
	}, s.handleJump)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "next",
		Description: "Move the cursor one step forward",
	}, s.handleNext)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "prev",
		Description: "Move the cursor one step back",
	}, s.handlePrev)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_semantic",
		Description: "Choose whether the cursor stops on semantic steps",
	}, s.handleSetSemantic)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_steps",
		Description: "List the steps around the cursor",
	}, s.handleListSteps)
}

func (s *Server) handleLogStats(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, LogStatsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.session.Stats()
	byKind := make(map[string]int, len(st.ByKind))
	for k, n := range st.ByKind {
		byKind[k.String()] = n
	}
	return nil, LogStatsOutput{
		Phase:    s.session.Log().Phase(),
		Steps:    st.Steps,
		Unknown:  st.Unknown,
		Unread:   st.Unread,
		Scopes:   st.Scopes,
		Symbols:  st.Symbols,
		ASTNodes: st.ASTNodes,
		ByKind:   byKind,
	}, nil
}

func (s *Server) handleSnapshot(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, SnapshotOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, SnapshotOutput{Snapshot: s.session.Snapshot()}, nil
}

func (s *Server) handleJump(ctx context.Context, req *sdk.CallToolRequest, input JumpInput) (*sdk.CallToolResult, MoveOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Jump(input.Cursor)
	return nil, s.moveOutput(), nil
}

func (s *Server) handleNext(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, MoveOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Next()
	return nil, s.moveOutput(), nil
}

func (s *Server) handlePrev(ctx context.Context, req *sdk.CallToolRequest, input EmptyInput) (*sdk.CallToolResult, MoveOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Prev()
	return nil, s.moveOutput(), nil
}

func (s *Server) handleSetSemantic(ctx context.Context, req *sdk.CallToolRequest, input SetSemanticInput) (*sdk.CallToolResult, MoveOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.SetSemantic(input.Enabled)
	s.logger.Debug("semantic steps", slog.Bool("enabled", input.Enabled))
	return nil, s.moveOutput(), nil
}

func (s *Server) handleListSteps(ctx context.Context, req *sdk.CallToolRequest, input ListStepsInput) (*sdk.CallToolResult, ListStepsOutput, error) {
	before := input.Before
	after := input.After
	if before < 0 || after < 0 {
		return nil, ListStepsOutput{}, fmt.Errorf("before and after must not be negative")
	}
	if before == 0 && after == 0 {
		before, after = defaultBefore, defaultAfter
	}
	before = min(before, maxWindow)
	after = min(after, maxWindow)

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.session.Cursor()
	entries := s.session.Window(before, after)
	out := make([]StepOutput, 0, len(entries))
	for _, e := range entries {
		out = append(out, stepOutputFromEntry(e, cur))
	}
	return nil, ListStepsOutput{Cursor: cur, Steps: out}, nil
}

func (s *Server) moveOutput() MoveOutput {
	snap := s.session.Snapshot()
	return MoveOutput{
		Cursor:   snap.Cursor,
		Len:      snap.Len,
		Semantic: snap.Semantic,
		Step:     snap.Step,
	}
}

func stepOutputFromEntry(e event.Entry, cursor int) StepOutput {
	return StepOutput{
		Index:   e.Index,
		Kind:    e.Event.Kind().String(),
		Summary: event.Summary(e.Event),
		Current: e.Index == cursor,
	}
}
