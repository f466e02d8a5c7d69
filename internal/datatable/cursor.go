package datatable

// cursor tracks the highlighted row within the current page.
type cursor struct {
	pos int
}

// set moves the cursor, clamping to [0, n-1].
func (c *cursor) set(pos, n int) {
	if n == 0 {
		c.pos = 0
		return
	}
	c.pos = min(max(pos, 0), n-1)
}

func (c *cursor) move(delta, n int) {
	c.set(c.pos+delta, n)
}
