package blueprint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON = Format("json")
	FormatYAML = Format("yaml")
)

// FormatOf chooses the decoder from a file extension. Anything that isn't `.yaml` or `.yml`
// is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func Decode(r io.Reader, format Format, v interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(v)
	}
}

func readFile(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Cannot open the blueprint %s: %w", path, err)
	}
	defer f.Close()
	err = Decode(f, FormatOf(path), v)
	if err != nil {
		return fmt.Errorf("Cannot read the blueprint %s: %w", path, err)
	}
	return nil
}

func ReadGrammar(path string) (*Grammar, error) {
	g := &Grammar{}
	err := readFile(path, g)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func ReadStateTable(path string) (*StateTable, error) {
	t := &StateTable{}
	err := readFile(path, t)
	if err != nil {
		return nil, err
	}
	t.buildIndex()
	return t, nil
}

func ReadAST(path string) (*AST, error) {
	a := &AST{}
	err := readFile(path, a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type Paths struct {
	Grammar string
	States  string
	AST     string
}

// Bundle holds every blueprint a session highlights against. A blueprint whose path was
// empty stays nil.
type Bundle struct {
	Grammar *Grammar
	States  *StateTable
	AST     *AST
}

// LoadBundle reads the blueprints in parallel. Either all of them are loaded or an error is
// returned.
func LoadBundle(ctx context.Context, paths Paths) (*Bundle, error) {
	b := &Bundle{}
	g, ctx := errgroup.WithContext(ctx)
	if paths.Grammar != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			gram, err := ReadGrammar(paths.Grammar)
			if err != nil {
				return err
			}
			b.Grammar = gram
			return nil
		})
	}
	if paths.States != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tab, err := ReadStateTable(paths.States)
			if err != nil {
				return err
			}
			b.States = tab
			return nil
		})
	}
	if paths.AST != "" {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := ReadAST(paths.AST)
			if err != nil {
				return err
			}
			b.AST = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return b, nil
}
