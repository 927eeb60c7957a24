// Package replay owns the cursor over a log and composes the read models into snapshots.
package replay

import (
	"errors"
	"log/slog"

	"github.com/nihei9/vartrace/ast"
	"github.com/nihei9/vartrace/automaton"
	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/rule"
	"github.com/nihei9/vartrace/spec/blueprint"
	"github.com/nihei9/vartrace/symtab"
)

var ErrNoLog = errors.New("no log is loaded")

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSemantic sets whether the cursor stops at semantic steps.
func WithSemantic(enabled bool) Option {
	return func(s *Session) {
		s.semantic = enabled
	}
}

// Session replays one log against a bundle of blueprints. A Session is not safe for concurrent
// use.
type Session struct {
	bundle   *blueprint.Bundle
	log      *event.Log
	cursor   *Cursor
	semantic bool
	mat      *ast.Materializer
	// revealed is the index up to which mat has revealed nodes.
	revealed int
	logger   *slog.Logger
}

func NewSession(bundle *blueprint.Bundle, opts ...Option) *Session {
	if bundle == nil {
		bundle = &blueprint.Bundle{}
	}
	s := &Session{
		bundle:   bundle,
		log:      event.NewLog(""),
		cursor:   NewCursor(0),
		mat:      ast.NewMaterializer(bundle.AST),
		revealed: -1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "replay"))
	return s
}

// Load replaces the log. On success every derived state is discarded and the cursor goes back
// to -1. On failure the session keeps its previous log and cursor.
func (s *Session) Load(l *event.Log) error {
	if l == nil {
		return ErrNoLog
	}
	s.log = l
	s.cursor = NewCursor(l.Len())
	s.mat.Reset()
	s.revealed = -1
	s.logger.Debug("log loaded",
		slog.String("phase", l.Phase()),
		slog.Int("steps", l.Len()),
	)
	return nil
}

// LoadFile reads a log file and loads it. The session is left untouched when the file cannot
// be read.
func (s *Session) LoadFile(path string) error {
	l, err := event.ReadFile(path)
	if err != nil {
		s.logger.Warn("log could not be loaded",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return err
	}
	return s.Load(l)
}

func (s *Session) Log() *event.Log {
	return s.log
}

func (s *Session) Bundle() *blueprint.Bundle {
	return s.bundle
}

func (s *Session) Cursor() int {
	return s.cursor.Pos()
}

func (s *Session) Len() int {
	return s.log.Len()
}

func (s *Session) Semantic() bool {
	return s.semantic
}

// SetSemantic switches semantic stepping. Turning it off moves a cursor resting on a semantic
// step off of it.
func (s *Session) SetSemantic(enabled bool) int {
	s.semantic = enabled
	return s.moveTo(rule.Normalize(s.log.Events(), s.cursor.Pos(), enabled))
}

func (s *Session) Next() int {
	return s.moveTo(rule.Forward(s.log.Events(), s.cursor.Pos(), s.semantic))
}

func (s *Session) Prev() int {
	return s.moveTo(rule.Backward(s.log.Events(), s.cursor.Pos(), s.semantic))
}

// Jump moves the cursor to i. An out-of-range index is clamped.
func (s *Session) Jump(i int) int {
	return s.moveTo(rule.Normalize(s.log.Events(), i, s.semantic))
}

func (s *Session) moveTo(i int) int {
	from := s.cursor.Pos()
	to := s.cursor.Jump(i)
	s.syncAST(to)
	if from != to {
		s.logger.Debug("cursor moved",
			slog.Int("from", from),
			slog.Int("to", to),
		)
	}
	return to
}

// syncAST brings the materializer to the cursor. Moving forward reveals the nodes of the new
// steps; moving backward rebuilds it from empty.
func (s *Session) syncAST(to int) {
	evs := s.log.Events()
	switch {
	case to == s.revealed:
		return
	case to > s.revealed:
		s.mat.Advance(evs, s.revealed+1, to)
	default:
		s.mat.Reset()
		s.mat.Advance(evs, 0, to)
		s.logger.Debug("ast rebuilt",
			slog.Int("cursor", to),
			slog.Int("visible_nodes", len(s.mat.VisibleNodes())),
		)
	}
	s.revealed = to
}

// Snapshot derives every read model at the cursor.
func (s *Session) Snapshot() *Snapshot {
	evs := s.log.Events()
	cur := s.cursor.Pos()
	s.syncAST(cur)

	auto := automaton.Derive(evs, cur)
	snap := &Snapshot{
		Cursor:    cur,
		Len:       len(evs),
		Semantic:  s.semantic,
		Step:      stepAt(evs, cur),
		Token:     tokenAt(evs, cur),
		Scopes:    symtab.Derive(evs, cur),
		Automaton: auto,
		Highlight: auto.Highlight(s.bundle.States),
		Rule:      rule.ActiveRule(evs, cur),
		AST: &AST{
			Nodes:  s.mat.VisibleNodes(),
			Edges:  s.mat.VisibleEdges(),
			Intent: s.mat.LastIntent(),
		},
	}
	if s.semantic {
		snap.SemanticStep = rule.SemanticHighlight(evs, cur, s.bundle.Grammar)
	}
	return snap
}

// Window returns the steps from before entries ahead of the cursor to after entries past it.
func (s *Session) Window(before, after int) []event.Entry {
	cur := s.cursor.Pos()
	if cur < 0 {
		cur = 0
	}
	return s.log.Window(cur, before, after)
}

func (s *Session) Stats() *event.Stats {
	return s.log.Stats()
}
