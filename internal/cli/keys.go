package cli

import "github.com/charmbracelet/bubbles/key"

// wizardKeys are the wizard's own bindings. They are matched before keys
// reach the step form.
type wizardKeys struct {
	Next        key.Binding
	Prev        key.Binding
	Review      key.Binding
	AddEntry    key.Binding
	RemoveEntry key.Binding
	Submit      key.Binding
	Jump        key.Binding
	Quit        key.Binding
}

func defaultWizardKeys() wizardKeys {
	return wizardKeys{
		Next:        key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next step")),
		Prev:        key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "previous step")),
		Review:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "review")),
		AddEntry:    key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "add entry")),
		RemoveEntry: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove last entry")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Jump:        key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-8", "edit step")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "save & quit")),
	}
}

// stepHelp implements help.KeyMap for an editable step.
type stepHelp struct {
	keys       wizardKeys
	repeatable bool
}

func (h stepHelp) ShortHelp() []key.Binding {
	out := []key.Binding{h.keys.Next, h.keys.Prev, h.keys.Review}
	if h.repeatable {
		out = append(out, h.keys.AddEntry, h.keys.RemoveEntry)
	}
	return append(out, h.keys.Quit)
}

func (h stepHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// reviewHelp implements help.KeyMap for the review screen.
type reviewHelp struct {
	keys wizardKeys
}

func (h reviewHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Jump, h.keys.Prev, h.keys.Submit, h.keys.Quit}
}

func (h reviewHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }
