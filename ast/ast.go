// Package ast decides which slots of an AST blueprint are visible after a prefix of the log.
package ast

import (
	"fmt"
	"sort"

	"github.com/nihei9/vartrace/event"
	"github.com/nihei9/vartrace/spec/blueprint"
)

type IntentKind string

const IntentReveal = IntentKind("reveal")

// Intent asks a viewer to bring a node into view. NodeID is the blueprint id of the node.
type Intent struct {
	NodeID int        `json:"node_id" msgpack:"node_id"`
	Kind   IntentKind `json:"kind" msgpack:"kind"`
}

type Edge struct {
	From int `json:"from" msgpack:"from"`
	To   int `json:"to" msgpack:"to"`
}

func (e Edge) Key() string {
	return fmt.Sprintf("%v->%v", e.From, e.To)
}

type index struct {
	slots    map[int]int
	nodes    map[int]*blueprint.ASTNode
	incident map[int][]Edge
}

func newIndex(bp *blueprint.AST) *index {
	idx := &index{
		slots:    map[int]int{},
		nodes:    map[int]*blueprint.ASTNode{},
		incident: map[int][]Edge{},
	}
	if bp == nil {
		return idx
	}
	for _, n := range bp.Nodes {
		if n == nil {
			continue
		}
		if _, ok := idx.nodes[n.ID]; !ok {
			idx.nodes[n.ID] = n
		}
		// The first slot declared for a parser id keeps it.
		if _, ok := idx.slots[n.NodeID]; !ok {
			idx.slots[n.NodeID] = n.ID
		}
	}
	for _, e := range bp.Edges {
		if e == nil {
			continue
		}
		edge := Edge{From: e.From, To: e.To}
		idx.incident[e.From] = append(idx.incident[e.From], edge)
		if e.To != e.From {
			idx.incident[e.To] = append(idx.incident[e.To], edge)
		}
	}
	return idx
}

// Materializer holds the visible part of an AST blueprint. It is the one stateful read model:
// a caller moving backward must Reset it and reveal again from the start of the log.
type Materializer struct {
	idx   *index
	nodes map[int]struct{}
	edges map[string]Edge
	last  *Intent
}

func NewMaterializer(bp *blueprint.AST) *Materializer {
	return &Materializer{
		idx:   newIndex(bp),
		nodes: map[int]struct{}{},
		edges: map[string]Edge{},
	}
}

// Reveal makes the slot of a parser-assigned node id visible. It reports false and changes
// nothing when the id resolves to no slot or the slot is already visible.
func (m *Materializer) Reveal(nodeID int) (Intent, bool) {
	slot, ok := m.idx.slots[nodeID]
	if !ok {
		return Intent{}, false
	}
	if _, ok := m.nodes[slot]; ok {
		return Intent{}, false
	}
	m.nodes[slot] = struct{}{}
	for _, e := range m.idx.incident[slot] {
		if !m.IsVisible(e.From) || !m.IsVisible(e.To) {
			continue
		}
		m.edges[e.Key()] = e
	}
	intent := Intent{
		NodeID: slot,
		Kind:   IntentReveal,
	}
	m.last = &intent
	return intent, true
}

func (m *Materializer) Reset() {
	m.nodes = map[int]struct{}{}
	m.edges = map[string]Edge{}
	m.last = nil
}

func (m *Materializer) IsVisible(slot int) bool {
	_, ok := m.nodes[slot]
	return ok
}

// VisibleNodes returns the visible blueprint nodes ordered by id.
func (m *Materializer) VisibleNodes() []*blueprint.ASTNode {
	ids := make([]int, 0, len(m.nodes))
	for id := range m.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	nodes := make([]*blueprint.ASTNode, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, m.idx.nodes[id])
	}
	return nodes
}

// VisibleEdges returns the visible edges ordered by key.
func (m *Materializer) VisibleEdges() []Edge {
	keys := make([]string, 0, len(m.edges))
	for k := range m.edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	edges := make([]Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, m.edges[k])
	}
	return edges
}

// LastIntent returns the intent of the most recent successful reveal since the last reset.
func (m *Materializer) LastIntent() *Intent {
	if m.last == nil {
		return nil
	}
	intent := *m.last
	return &intent
}

// Advance reveals the nodes created by events[from..to]. The bounds are clamped to the log.
func (m *Materializer) Advance(events []event.Event, from, to int) {
	if from < 0 {
		from = 0
	}
	to = event.Bound(len(events), to)
	for i := from; i <= to; i++ {
		if e, ok := events[i].(event.ASTNodeCreated); ok {
			m.Reveal(e.NodeID)
		}
	}
}

// Replay builds a materializer from empty and reveals every node created by
// events[0..cursor].
func Replay(bp *blueprint.AST, events []event.Event, cursor int) *Materializer {
	m := NewMaterializer(bp)
	m.Advance(events, 0, cursor)
	return m
}
