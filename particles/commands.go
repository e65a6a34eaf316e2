package particles

import "sync"

// Commands buffers control requests and applies them at the end of a frame,
// after rendering, so a reset or pause never lands between Advance and
// Project. It is safe to enqueue from any goroutine.
type Commands struct {
	mu  sync.Mutex
	ops []command
}

type commandKind uint8

const (
	cmdToggleAnimate commandKind = iota
	cmdTogglePointSize
	cmdReset
	cmdToggleVerbose
	cmdDefer
)

type command struct {
	kind commandKind
	fn   func()
}

func newCommands() *Commands {
	return &Commands{}
}

func (c *Commands) push(cmd command) {
	c.mu.Lock()
	c.ops = append(c.ops, cmd)
	c.mu.Unlock()
}

// ToggleAnimate queues a pause/resume.
func (c *Commands) ToggleAnimate() { c.push(command{kind: cmdToggleAnimate}) }

// TogglePointSize queues a switch of the renderer's point size mode.
func (c *Commands) TogglePointSize() { c.push(command{kind: cmdTogglePointSize}) }

// Reset queues a rewind of the clock and a reset of every particle.
func (c *Commands) Reset() { c.push(command{kind: cmdReset}) }

// ToggleVerbose queues a switch of debug diagnostics.
func (c *Commands) ToggleVerbose() { c.push(command{kind: cmdToggleVerbose}) }

// Defer queues an arbitrary function.
func (c *Commands) Defer(fn func()) { c.push(command{kind: cmdDefer, fn: fn}) }

// Key maps the fountain's key bindings onto commands. It returns false for
// keys that have no binding.
func (c *Commands) Key(r rune) bool {
	switch r {
	case ' ':
		c.ToggleAnimate()
	case 'p':
		c.TogglePointSize()
	case 'r':
		c.Reset()
	case 'v':
		c.ToggleVerbose()
	default:
		return false
	}
	return true
}

// Pending returns the number of queued commands.
func (c *Commands) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ops)
}

// Flush applies every queued command to sim in the order queued.
func (c *Commands) Flush(sim *Simulation) {
	c.mu.Lock()
	ops := c.ops
	c.ops = nil
	c.mu.Unlock()

	for _, op := range ops {
		switch op.kind {
		case cmdToggleAnimate:
			sim.ToggleAnimating()
			sim.Logger().Info("animate toggled", "animating", sim.Animating())
		case cmdTogglePointSize:
			sim.TogglePointSize()
			sim.Logger().Info("point size mode toggled", "computed", sim.ComputedPointSize())
		case cmdReset:
			sim.Reset()
		case cmdToggleVerbose:
			sim.ToggleVerbose()
			sim.Logger().Info("verbose toggled", "verbose", sim.Verbose())
		case cmdDefer:
			op.fn()
		}
	}
}
