package term

import (
	"github.com/gdamore/tcell/v2"
	"github.com/plus3/fountain/particles"
)

// HandleEvent applies a terminal event: bound keys are queued on commands
// and resizes repaint the screen. It reports whether the user asked to quit.
func HandleEvent(screen tcell.Screen, ev tcell.Event, commands *particles.Commands) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() == tcell.KeyRune {
			if ev.Rune() == 'q' {
				return true
			}
			commands.Key(ev.Rune())
		}
	case *tcell.EventResize:
		screen.Sync()
	}
	return false
}
