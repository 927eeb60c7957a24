package replay

import "github.com/nihei9/vartrace/event"

// Cursor is the replay boundary over a log of n events. Its position is always within
// [-1, n-1]; -1 means nothing has been replayed.
type Cursor struct {
	pos int
	n   int
}

func NewCursor(n int) *Cursor {
	if n < 0 {
		n = 0
	}
	return &Cursor{
		pos: -1,
		n:   n,
	}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return c.n
}

func (c *Cursor) AtStart() bool {
	return c.pos < 0
}

func (c *Cursor) AtEnd() bool {
	return c.pos == c.n-1
}

func (c *Cursor) Next() int {
	return c.Jump(c.pos + 1)
}

func (c *Cursor) Prev() int {
	return c.Jump(c.pos - 1)
}

// Jump moves the cursor to i, clamped to the log.
func (c *Cursor) Jump(i int) int {
	c.pos = event.Bound(c.n, i)
	return c.pos
}
