package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/fountain/particles"
)

// KeyBindings maps ebiten keys onto the fountain's command keys.
var KeyBindings = map[ebiten.Key]rune{
	ebiten.KeySpace: ' ',
	ebiten.KeyP:     'p',
	ebiten.KeyR:     'r',
	ebiten.KeyV:     'v',
}

// QuitKeys end the game.
var QuitKeys = []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}

// PollKeys queues a command for every bound key that justPressed reports,
// and reports whether a quit key was pressed.
func PollKeys(commands *particles.Commands, justPressed func(ebiten.Key) bool) (quit bool) {
	for _, key := range QuitKeys {
		if justPressed(key) {
			return true
		}
	}
	for _, key := range []ebiten.Key{ebiten.KeySpace, ebiten.KeyP, ebiten.KeyR, ebiten.KeyV} {
		if justPressed(key) {
			commands.Key(KeyBindings[key])
		}
	}
	return false
}
