package event

// Log is an ordered, immutable sequence of events. A log never changes after it was built;
// loading another document produces another log.
type Log struct {
	phase  string
	events []Event
}

func NewLog(phase string, events ...Event) *Log {
	evs := make([]Event, len(events))
	copy(evs, events)
	return &Log{
		phase:  phase,
		events: evs,
	}
}

func (l *Log) Phase() string {
	if l == nil {
		return ""
	}
	return l.phase
}

func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

func (l *Log) At(i int) (Event, bool) {
	if l == nil || i < 0 || i >= len(l.events) {
		return nil, false
	}
	return l.events[i], true
}

// Events returns the events of the log. Callers must not modify the returned slice.
func (l *Log) Events() []Event {
	if l == nil {
		return nil
	}
	return l.events
}

// Bound clamps a cursor to the inclusive upper bound of a replay over n events. The result is
// -1 when nothing is replayed.
func Bound(n, cursor int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < -1 {
		cursor = -1
	}
	return cursor
}

// Prefix returns events[0..cursor] with the cursor clamped. Every reconstructor folds exactly
// this slice.
func Prefix(events []Event, cursor int) []Event {
	upper := Bound(len(events), cursor)
	if upper < 0 {
		return nil
	}
	return events[:upper+1]
}

type Entry struct {
	Index int
	Event Event
}

// Window returns the events from before entries ahead of the cursor to after entries past it,
// with their absolute indices.
func (l *Log) Window(cursor, before, after int) []Entry {
	if l.Len() == 0 {
		return nil
	}
	start := cursor - before
	if start < 0 {
		start = 0
	}
	end := cursor + after
	if end > l.Len() {
		end = l.Len()
	}
	var es []Entry
	for i := start; i < end; i++ {
		es = append(es, Entry{
			Index: i,
			Event: l.events[i],
		})
	}
	return es
}

type Stats struct {
	Steps    int
	Unknown  int
	Unread   int
	ByKind   map[Kind]int
	Scopes   int
	Symbols  int
	ASTNodes int
}

// Stats counts the events of the log.
func (l *Log) Stats() *Stats {
	s := &Stats{
		Steps:  l.Len(),
		ByKind: map[Kind]int{},
	}
	scopes := map[int]struct{}{}
	for _, ev := range l.Events() {
		s.ByKind[ev.Kind()]++
		switch e := ev.(type) {
		case Opaque:
			if e.Err != nil {
				s.Unread++
			} else {
				s.Unknown++
			}
		case ScopeCreated:
			scopes[e.TableID] = struct{}{}
			if e.ParentID != nil {
				scopes[*e.ParentID] = struct{}{}
			}
		case ScopeEntered:
			scopes[e.TableID] = struct{}{}
		case ScopeExited:
			scopes[e.TableID] = struct{}{}
		case SymbolAdded:
			scopes[e.ScopeID] = struct{}{}
			s.Symbols++
		case SymbolTypeAssigned:
			scopes[e.ScopeID] = struct{}{}
		case ASTNodeCreated:
			s.ASTNodes++
		}
	}
	s.Scopes = len(scopes)
	return s
}
