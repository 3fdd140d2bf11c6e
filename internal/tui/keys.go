package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	SwitchTab     key.Binding
	Submit        key.Binding
	ToggleHistory key.Binding
	CycleFilter   key.Binding
	ClearHistory  key.Binding
	Copy          key.Binding
	Shorter       key.Binding
	Longer        key.Binding
	Uppercase     key.Binding
	Numbers       key.Binding
	Symbols       key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch tab"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "check / generate"),
		),
		ToggleHistory: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "history"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "filter"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear history"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y", "c"),
			key.WithHelp("c", "copy"),
		),
		Shorter: key.NewBinding(
			key.WithKeys("left", "-"),
			key.WithHelp("←/-", "shorter"),
		),
		Longer: key.NewBinding(
			key.WithKeys("right", "+", "="),
			key.WithHelp("→/+", "longer"),
		),
		Uppercase: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "uppercase"),
		),
		Numbers: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "numbers"),
		),
		Symbols: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "symbols"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// tabHelp backs the help line of a tab.
type tabHelp struct {
	short []key.Binding
}

func (h tabHelp) ShortHelp() []key.Binding  { return h.short }
func (h tabHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.short} }

func (k keyMap) checkHelp() tabHelp {
	return tabHelp{short: []key.Binding{k.Submit, k.SwitchTab, k.ToggleHistory, k.CycleFilter, k.ClearHistory, k.Quit}}
}

func (k keyMap) generateHelp() tabHelp {
	return tabHelp{short: []key.Binding{
		k.Submit, k.Shorter, k.Longer, k.Uppercase, k.Numbers, k.Symbols, k.Copy,
		k.SwitchTab, k.ToggleHistory, k.Quit,
	}}
}
