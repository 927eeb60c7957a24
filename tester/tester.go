package tester

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/replay"
	"github.com/nihei9/vartrace/spec/blueprint"
	tspec "github.com/nihei9/vartrace/spec/test"
)

type TestResult struct {
	TestCasePath string
	Name         string
	Error        error
	Diffs        []*CheckpointDiff
}

// CheckpointDiff is a failed expectation of the checkpoint with the index.
type CheckpointDiff struct {
	Checkpoint int
	Cursor     int
	Diff       *tspec.SnapshotDiff
}

func (r *TestResult) String() string {
	label := r.TestCasePath
	if r.Name != "" {
		label = fmt.Sprintf("%v (%v)", r.TestCasePath, r.Name)
	}
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", label, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, diff.Diff.Message)
			diffLines = append(diffLines, fmt.Sprintf("%vcheckpoint: #%v (cursor %v)", indent1, diff.Checkpoint, diff.Cursor))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", label)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

func isTestCaseFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ListTestCases reads a test case file, or every YAML file under a directory.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() && !isTestCaseFile(e.Name()) {
			continue
		}
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*tspec.TestCase, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester runs test cases. Bundle is used by the cases that declare no blueprint of their own.
type Tester struct {
	Bundle *blueprint.Bundle
	Cases  []*TestCaseWithMetadata
}

func (t *Tester) Run(ctx context.Context) []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(ctx, t.Bundle, c))
	}
	return rs
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(p))
}

func loadLog(c *TestCaseWithMetadata) (*event.Log, error) {
	if c.TestCase.Log != "" {
		return event.ReadFile(resolve(c.FilePath, c.TestCase.Log))
	}
	doc, err := c.TestCase.InlineDocument()
	if err != nil {
		return nil, err
	}
	return event.Decode(doc)
}

func loadBundle(ctx context.Context, def *blueprint.Bundle, c *TestCaseWithMetadata) (*blueprint.Bundle, error) {
	bps := c.TestCase.Blueprints
	loaded, err := blueprint.LoadBundle(ctx, blueprint.Paths{
		Grammar: resolve(c.FilePath, bps.Grammar),
		States:  resolve(c.FilePath, bps.States),
		AST:     resolve(c.FilePath, bps.AST),
	})
	if err != nil {
		return nil, err
	}
	if def == nil {
		return loaded, nil
	}
	if loaded.Grammar == nil {
		loaded.Grammar = def.Grammar
	}
	if loaded.States == nil {
		loaded.States = def.States
	}
	if loaded.AST == nil {
		loaded.AST = def.AST
	}
	return loaded, nil
}

func move(s *replay.Session, m tspec.Move) {
	switch m {
	case tspec.MoveNext:
		s.Next()
	case tspec.MovePrev:
		s.Prev()
	case tspec.MoveHome:
		s.Jump(-1)
	case tspec.MoveEnd:
		s.Jump(s.Len() - 1)
	}
}

func runTest(ctx context.Context, def *blueprint.Bundle, c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}
	r := &TestResult{
		TestCasePath: c.FilePath,
		Name:         c.TestCase.Name,
	}

	bundle, err := loadBundle(ctx, def, c)
	if err != nil {
		r.Error = err
		return r
	}
	l, err := loadLog(c)
	if err != nil {
		r.Error = err
		return r
	}
	s := replay.NewSession(bundle, replay.WithSemantic(c.TestCase.Semantic))
	if err := s.Load(l); err != nil {
		r.Error = err
		return r
	}

	for i, cp := range c.TestCase.Checkpoints {
		if cp.Jump != nil {
			s.Jump(*cp.Jump)
		}
		for _, m := range cp.Moves {
			move(s, m)
		}
		snap := s.Snapshot()
		for _, d := range tspec.DiffSnapshot(cp.Expect, snap) {
			r.Diffs = append(r.Diffs, &CheckpointDiff{
				Checkpoint: i,
				Cursor:     snap.Cursor,
				Diff:       d,
			})
		}
	}
	if len(r.Diffs) > 0 {
		r.Error = fmt.Errorf("snapshot mismatch")
	}
	return r
}
