// Package sample embeds a trace of the declaration `int i = 2;` and the blueprints it replays
// against.
package sample

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

//go:embed data
var data embed.FS

const (
	stepsFile   = "data/steps.json"
	grammarFile = "data/grammar.yaml"
	statesFile  = "data/states.json"
	astFile     = "data/ast.json"
	sourceFile  = "data/source.c"
)

// Name labels the sample where a file name would otherwise be shown.
const Name = "<sample>"

func decode(path string, v interface{}) error {
	src, err := data.ReadFile(path)
	if err != nil {
		return err
	}
	if err := blueprint.Decode(bytes.NewReader(src), blueprint.FormatOf(path), v); err != nil {
		return fmt.Errorf("Cannot read the sample %s: %w", path, err)
	}
	return nil
}

func Log() (*event.Log, error) {
	src, err := data.ReadFile(stepsFile)
	if err != nil {
		return nil, err
	}
	return event.Read(bytes.NewReader(src))
}

func Bundle() (*blueprint.Bundle, error) {
	g := &blueprint.Grammar{}
	if err := decode(grammarFile, g); err != nil {
		return nil, err
	}
	t := &blueprint.StateTable{}
	if err := decode(statesFile, t); err != nil {
		return nil, err
	}
	a := &blueprint.AST{}
	if err := decode(astFile, a); err != nil {
		return nil, err
	}
	return &blueprint.Bundle{
		Grammar: g,
		States:  t,
		AST:     a,
	}, nil
}

// Source returns the program the trace was recorded for.
func Source() string {
	src, err := data.ReadFile(sourceFile)
	if err != nil {
		return ""
	}
	return string(src)
}
