package ui

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

func ctrl(r rune) shortcutList { return shortcutList{{Rune: r, Modifiers: key.ModControl}} }

func plain(runes ...rune) shortcutList {
	out := make(shortcutList, len(runes))
	for i, r := range runes {
		out[i] = KeyShortcut{Rune: r}
	}
	return out
}

// keymap resolves key presses to action names.
type keymap map[KeyShortcut]string

func (m keymap) register(name string, keys KeyboardShortcuts) {
	for _, sc := range keys.KeyboardShortcuts() {
		m[sc] = name
	}
}

// lookup matches letters case-insensitively and ignores Shift so that
// '+' typed as Shift+'=' still zooms.
func (m keymap) lookup(e key.Event) (string, bool) {
	ks := KeyShortcut{Code: e.Code, Modifiers: e.Modifiers &^ key.ModShift}
	if e.Rune > 0 {
		ks = KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: ks.Modifiers}
	}
	name, ok := m[ks]
	return name, ok
}

// Action names.
const (
	actGenerate   = "generate"
	actDownload   = "download"
	actExport     = "export"
	actCopy       = "copy"
	actPaste      = "paste"
	actCapture    = "capture"
	actQuit       = "quit"
	actEditLabel  = "label"
	actEditPrompt = "prompt"
	actZoomIn     = "zoomin"
	actZoomOut    = "zoomout"
	actZoomReset  = "zoomreset"
	actCancel     = "cancel"
	actDismiss    = "dismiss"
	actCommit     = "commit"
)

func toolAction(i int) string    { return fmt.Sprintf("tool%d", i) }
func historyAction(i int) string { return fmt.Sprintf("history%d", i) }

// defaultKeymap binds the window's shortcuts. Tool keys follow the first
// letter of each toolbar label.
func defaultKeymap() keymap {
	m := keymap{}
	m.register(actGenerate, ctrl('g'))
	m.register(actDownload, ctrl('s'))
	m.register(actExport, ctrl('e'))
	m.register(actCopy, ctrl('c'))
	m.register(actPaste, ctrl('v'))
	m.register(actCapture, ctrl('n'))
	m.register(actQuit, plain('q'))
	m.register(actEditLabel, plain('t'))
	m.register(actEditPrompt, plain('p'))
	m.register(actZoomIn, plain('+', '='))
	m.register(actZoomOut, plain('-'))
	m.register(actZoomReset, plain('0'))
	m.register(actCancel, shortcutList{{Code: key.CodeEscape}})
	m.register(actDismiss, plain(' '))
	for i, te := range toolEntries {
		r, _ := utf8.DecodeRuneInString(te.label)
		m.register(toolAction(i), plain(unicode.ToLower(r)))
	}
	for i := 0; i < 9; i++ {
		m.register(historyAction(i), ctrl(rune('1'+i)))
	}
	return m
}

// field identifies which text input the keyboard is editing.
type field int

const (
	fieldNone field = iota
	fieldLabel
	fieldPrompt
)

func (f field) String() string {
	switch f {
	case fieldLabel:
		return "label"
	case fieldPrompt:
		return "prompt"
	}
	return ""
}

// editor is a single-line text input. Escape restores the value the edit
// started with.
type editor struct {
	field field
	value string
	orig  string
}

func (ed *editor) begin(f field, value string) {
	ed.field = f
	ed.value = value
	ed.orig = value
}

func (ed *editor) active() bool { return ed.field != fieldNone }

// editResult says how a key press ended, if it did.
type editResult int

const (
	editContinue editResult = iota
	editCommit
	editCancel
)

// key applies a key press to the input.
func (ed *editor) key(e key.Event) editResult {
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return editCommit
	case key.CodeEscape:
		ed.value = ed.orig
		return editCancel
	case key.CodeDeleteBackspace:
		if _, size := utf8.DecodeLastRuneInString(ed.value); size > 0 {
			ed.value = ed.value[:len(ed.value)-size]
		}
		return editContinue
	}
	if e.Modifiers&(key.ModControl|key.ModMeta) == 0 && e.Rune > 0 && unicode.IsPrint(e.Rune) {
		ed.value += string(e.Rune)
	}
	return editContinue
}

func (ed *editor) insert(s string) {
	for _, r := range s {
		if unicode.IsPrint(r) {
			ed.value += string(r)
		}
	}
}

func (ed *editor) end() (field, string) {
	f, v := ed.field, ed.value
	*ed = editor{}
	return f, v
}
