// Package test reads replay scenarios and compares snapshots against their expectations.
package test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nihei9/vartrace/spec/steps"
	"gopkg.in/yaml.v3"
)

// TestCase is a replay scenario. The log is read either from Log, a path relative to the file
// of the test case, or from the inline Steps.
type TestCase struct {
	Name        string        `yaml:"name"`
	Log         string        `yaml:"log"`
	Steps       []interface{} `yaml:"steps"`
	Blueprints  Blueprints    `yaml:"blueprints"`
	Semantic    bool          `yaml:"semantic"`
	Checkpoints []*Checkpoint `yaml:"checkpoints"`
}

type Blueprints struct {
	Grammar string `yaml:"grammar"`
	States  string `yaml:"states"`
	AST     string `yaml:"ast"`
}

// Move is a cursor operation of a checkpoint.
type Move string

const (
	MoveNext = Move("next")
	MovePrev = Move("prev")
	MoveHome = Move("home")
	MoveEnd  = Move("end")
)

// Checkpoint moves the cursor and checks the snapshot there. Jump is applied before Moves.
type Checkpoint struct {
	Jump   *int    `yaml:"jump"`
	Moves  []Move  `yaml:"moves"`
	Expect *Expect `yaml:"expect"`
}

// Expect lists the facts a snapshot must satisfy. Unset fields are not checked.
type Expect struct {
	Cursor       *int               `yaml:"cursor"`
	Focus        *int               `yaml:"focus"`
	NoFocus      bool               `yaml:"no_focus"`
	Scopes       []*ExpectedScope   `yaml:"scopes"`
	VisibleNodes []int              `yaml:"visible_nodes"`
	VisibleEdges []string           `yaml:"visible_edges"`
	ActiveState  *int               `yaml:"active_state"`
	Highlight    *ExpectedHighlight `yaml:"highlight"`
	NoHighlight  bool               `yaml:"no_highlight"`
	Rule         *int               `yaml:"rule"`
	SemanticStep *ExpectedStep      `yaml:"semantic_step"`
}

// ExpectedScope describes one scope. Symbols, when given, must match the symbols of the scope
// in order.
type ExpectedScope struct {
	ID      int               `yaml:"id"`
	Name    *string           `yaml:"name"`
	Parent  *int              `yaml:"parent"`
	Root    bool              `yaml:"root"`
	Symbols []*ExpectedSymbol `yaml:"symbols"`
}

type ExpectedSymbol struct {
	Name string  `yaml:"name"`
	Type *string `yaml:"type"`
}

type ExpectedHighlight struct {
	Kind   string  `yaml:"kind"`
	Symbol *string `yaml:"symbol"`
	To     *int    `yaml:"to"`
	Rule   *int    `yaml:"rule"`
}

type ExpectedStep struct {
	Rule int `yaml:"rule"`
	Step int `yaml:"step"`
}

var (
	errNoCheckpoint = errors.New("a test case needs at least one checkpoint")
	errNoLog        = errors.New("a test case needs either a log or steps")
	errBothLogs     = errors.New("a test case cannot have both a log and steps")
)

func ParseTestCase(r io.Reader) (*TestCase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := &TestCase{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, err
	}
	switch {
	case c.Log == "" && len(c.Steps) == 0:
		return nil, errNoLog
	case c.Log != "" && len(c.Steps) > 0:
		return nil, errBothLogs
	case len(c.Checkpoints) == 0:
		return nil, errNoCheckpoint
	}
	for i, cp := range c.Checkpoints {
		if cp == nil {
			return nil, fmt.Errorf("checkpoint #%v is empty", i)
		}
		for _, m := range cp.Moves {
			switch m {
			case MoveNext, MovePrev, MoveHome, MoveEnd:
			default:
				return nil, fmt.Errorf("checkpoint #%v: unknown move: %v", i, m)
			}
		}
	}
	return c, nil
}

// InlineDocument returns the step document built from the inline steps.
func (c *TestCase) InlineDocument() (*steps.Document, error) {
	data, err := json.Marshal(map[string]interface{}{
		"phases": []interface{}{
			map[string]interface{}{
				"phase": "test",
				"steps": c.Steps,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Cannot convert the inline steps: %w", err)
	}
	doc := &steps.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("Cannot convert the inline steps: %w", err)
	}
	return doc, nil
}
