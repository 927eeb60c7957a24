// Package symtab reconstructs the scope forest of a compilation from a prefix of its event log.
package symtab

import (
	"fmt"
	"sort"

	"github.com/nihei9/vartrace/event"
)

const globalScopeID = 0

type Symbol struct {
	Name        string `json:"name" msgpack:"name"`
	Type        string `json:"type" msgpack:"type"`
	Line        int    `json:"line" msgpack:"line"`
	Col         int    `json:"col" msgpack:"col"`
	IsFunction  bool   `json:"is_function" msgpack:"is_function"`
	IsDuplicate bool   `json:"is_duplicate" msgpack:"is_duplicate"`
}

type Scope struct {
	ID       int       `json:"id" msgpack:"id"`
	Name     string    `json:"name" msgpack:"name"`
	ParentID *int      `json:"parent_id" msgpack:"parent_id"`
	Symbols  []*Symbol `json:"symbols" msgpack:"symbols"`
	Children []int     `json:"children" msgpack:"children"`

	// placeholder is true while Name is a generated name rather than one a step declared.
	placeholder bool
}

// State is the scope forest at a cursor. Scopes are sorted by id.
type State struct {
	Scopes  []*Scope `json:"scopes" msgpack:"scopes"`
	FocusID *int     `json:"focus_id" msgpack:"focus_id"`
}

func (s *State) Scope(id int) (*Scope, bool) {
	if s == nil {
		return nil, false
	}
	i := sort.Search(len(s.Scopes), func(i int) bool {
		return s.Scopes[i].ID >= id
	})
	if i < len(s.Scopes) && s.Scopes[i].ID == id {
		return s.Scopes[i], true
	}
	return nil, false
}

// Roots returns the scopes without a parent.
func (s *State) Roots() []*Scope {
	if s == nil {
		return nil
	}
	var roots []*Scope
	for _, sc := range s.Scopes {
		if sc.ParentID == nil {
			roots = append(roots, sc)
		}
	}
	return roots
}

func (s *State) SymbolCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, sc := range s.Scopes {
		n += len(sc.Symbols)
	}
	return n
}

func placeholderName(id int) string {
	if id == globalScopeID {
		return "global"
	}
	return fmt.Sprintf("scope_%v", id)
}

type forest struct {
	scopes map[int]*Scope

	// parents holds the parent each scope was declared with. A nil entry means the scope was
	// declared as a root; a missing entry means no declaration has been seen.
	parents map[int]*int
	focus   *int
}

func newForest() *forest {
	return &forest{
		scopes: map[int]*Scope{},
		parents: map[int]*int{
			globalScopeID: nil,
		},
	}
}

// getOrCreate returns the scope with the id, creating it on first reference. Only fields that
// are still unset are backfilled from name and the declared parent.
func (f *forest) getOrCreate(id int, name string) *Scope {
	sc, ok := f.scopes[id]
	if !ok {
		sc = &Scope{
			ID:          id,
			Name:        placeholderName(id),
			Symbols:     []*Symbol{},
			Children:    []int{},
			placeholder: true,
		}
		f.scopes[id] = sc
	}
	if sc.placeholder && name != "" {
		sc.Name = name
		sc.placeholder = false
	}
	if sc.ParentID == nil {
		if p := f.parents[id]; p != nil {
			parent := *p
			sc.ParentID = &parent
		}
	}
	return sc
}

// declareParent records the parent of a scope unless one was already declared.
func (f *forest) declareParent(id int, parent *int) {
	if p, ok := f.parents[id]; ok && p != nil {
		return
	}
	f.parents[id] = parent
}

func (f *forest) setFocus(id int) {
	focus := id
	f.focus = &focus
}

func (f *forest) apply(ev event.Event) {
	switch e := ev.(type) {
	case event.ScopeCreated:
		var parent *int
		if e.ParentID != nil && *e.ParentID != e.TableID {
			p := *e.ParentID
			parent = &p
		}
		f.declareParent(e.TableID, parent)
		f.getOrCreate(e.TableID, e.Name)
		if parent != nil {
			f.getOrCreate(*parent, "")
		}
		f.setFocus(e.TableID)
	case event.ScopeEntered:
		f.getOrCreate(e.TableID, e.Name)
		f.setFocus(e.TableID)
	case event.ScopeExited:
		sc := f.getOrCreate(e.TableID, e.Name)
		parent := sc.ParentID
		if parent == nil {
			parent = f.parents[e.TableID]
		}
		if parent != nil {
			f.setFocus(*parent)
		}
	case event.SymbolAdded:
		sc := f.getOrCreate(e.ScopeID, "")
		sc.Symbols = append(sc.Symbols, &Symbol{
			Name:        e.Name,
			Type:        e.Type,
			Line:        e.Line,
			Col:         e.Col,
			IsFunction:  e.IsFunction,
			IsDuplicate: e.IsDuplicate,
		})
		f.setFocus(e.ScopeID)
	case event.SymbolTypeAssigned:
		sc := f.getOrCreate(e.ScopeID, "")
		for _, sym := range sc.Symbols {
			if sym.Name == e.Name {
				sym.Type = e.Type
				break
			}
		}
		f.setFocus(e.ScopeID)
	default:
	}
}

func (f *forest) state() *State {
	scopes := make([]*Scope, 0, len(f.scopes))
	for _, sc := range f.scopes {
		sc.Children = []int{}
		scopes = append(scopes, sc)
	}
	sort.Slice(scopes, func(i, j int) bool {
		return scopes[i].ID < scopes[j].ID
	})
	// Scopes are visited in id order, so every children list comes out sorted.
	for _, sc := range scopes {
		if sc.ParentID == nil {
			continue
		}
		if parent, ok := f.scopes[*sc.ParentID]; ok {
			parent.Children = append(parent.Children, sc.ID)
		}
	}
	return &State{
		Scopes:  scopes,
		FocusID: f.focus,
	}
}

// Derive folds events[0..cursor] into a scope forest. A cursor past the end is clamped and a
// negative cursor yields an empty forest.
func Derive(events []event.Event, cursor int) *State {
	prefix := event.Prefix(events, cursor)
	if len(prefix) == 0 {
		return &State{
			Scopes: []*Scope{},
		}
	}
	f := newForest()
	for _, ev := range prefix {
		f.apply(ev)
	}
	return f.state()
}
