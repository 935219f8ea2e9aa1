package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// maxChipKeys is the number of chip denominations reachable from the keyboard.
const maxChipKeys = 9

type keyMap struct {
	Chips []key.Binding
	Clear key.Binding
	Deal  key.Binding
	Hit   key.Binding
	Stand key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newKeyMap(chipValues []int) keyMap {
	km := keyMap{
		Clear: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear bet")),
		Deal:  key.NewBinding(key.WithKeys("d", "enter"), key.WithHelp("d/enter", "deal")),
		Hit:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	for i, v := range chipValues {
		if i == maxChipKeys {
			break
		}
		k := fmt.Sprint(i + 1)
		km.Chips = append(km.Chips, key.NewBinding(key.WithKeys(k), key.WithHelp(k, fmt.Sprintf("$%d chip", v))))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Deal, k.Hit, k.Stand, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.Chips,
		{k.Clear, k.Deal},
		{k.Hit, k.Stand},
		{k.Help, k.Quit},
	}
}

// enableFor turns bindings on for the commands valid in the given phase,
// which also hides the others from the help view.
func (k *keyMap) enableFor(betting, playing bool) {
	for i := range k.Chips {
		k.Chips[i].SetEnabled(betting)
	}
	k.Clear.SetEnabled(betting)
	k.Deal.SetEnabled(betting)
	k.Hit.SetEnabled(playing)
	k.Stand.SetEnabled(playing)
}
