package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// keyToSequence translates a key press into the byte sequence an
// xterm-compatible terminal would send, for forwarding to the shell's
// pty. It returns "" for keys that have no terminal representation.
func keyToSequence(msg tea.KeyMsg) string {
	var seq string

	switch msg.Type {
	// Basic keys
	case tea.KeyEnter:
		seq = "\r"
	case tea.KeyBackspace:
		seq = "\x7f"
	case tea.KeyTab:
		seq = "\t"
	case tea.KeyShiftTab:
		seq = "\x1b[Z"
	case tea.KeySpace:
		seq = " "
	case tea.KeyEsc:
		seq = "\x1b"

	// Arrow keys
	case tea.KeyUp:
		seq = "\x1b[A"
	case tea.KeyDown:
		seq = "\x1b[B"
	case tea.KeyRight:
		seq = "\x1b[C"
	case tea.KeyLeft:
		seq = "\x1b[D"

	// Navigation keys
	case tea.KeyHome:
		seq = "\x1b[H"
	case tea.KeyEnd:
		seq = "\x1b[F"
	case tea.KeyPgUp:
		seq = "\x1b[5~"
	case tea.KeyPgDown:
		seq = "\x1b[6~"
	case tea.KeyDelete:
		seq = "\x1b[3~"
	case tea.KeyInsert:
		seq = "\x1b[2~"

	// Ctrl+letter combinations. The control byte is the letter's
	// position in the alphabet.
	case tea.KeyCtrlA:
		seq = "\x01"
	case tea.KeyCtrlB:
		seq = "\x02"
	case tea.KeyCtrlC:
		seq = "\x03"
	case tea.KeyCtrlD:
		seq = "\x04"
	case tea.KeyCtrlE:
		seq = "\x05"
	case tea.KeyCtrlF:
		seq = "\x06"
	case tea.KeyCtrlG:
		seq = "\x07"
	case tea.KeyCtrlH:
		seq = "\x08"
	// Ctrl+I is Tab and Ctrl+M is Enter - handled above
	case tea.KeyCtrlJ:
		seq = "\n"
	case tea.KeyCtrlK:
		seq = "\x0b"
	case tea.KeyCtrlL:
		seq = "\x0c"
	case tea.KeyCtrlN:
		seq = "\x0e"
	case tea.KeyCtrlO:
		seq = "\x0f"
	case tea.KeyCtrlP:
		seq = "\x10"
	case tea.KeyCtrlQ:
		seq = "\x11"
	case tea.KeyCtrlR:
		seq = "\x12"
	case tea.KeyCtrlS:
		seq = "\x13"
	case tea.KeyCtrlT:
		seq = "\x14"
	case tea.KeyCtrlU:
		seq = "\x15"
	case tea.KeyCtrlV:
		seq = "\x16"
	case tea.KeyCtrlW:
		seq = "\x17"
	case tea.KeyCtrlX:
		seq = "\x18"
	case tea.KeyCtrlY:
		seq = "\x19"
	case tea.KeyCtrlZ:
		seq = "\x1a"

	// Function keys
	case tea.KeyF1:
		seq = "\x1bOP"
	case tea.KeyF2:
		seq = "\x1bOQ"
	case tea.KeyF3:
		seq = "\x1bOR"
	case tea.KeyF4:
		seq = "\x1bOS"
	case tea.KeyF5:
		seq = "\x1b[15~"
	case tea.KeyF6:
		seq = "\x1b[17~"
	case tea.KeyF7:
		seq = "\x1b[18~"
	case tea.KeyF8:
		seq = "\x1b[19~"
	case tea.KeyF9:
		seq = "\x1b[20~"
	case tea.KeyF10:
		seq = "\x1b[21~"
	case tea.KeyF11:
		seq = "\x1b[23~"
	case tea.KeyF12:
		seq = "\x1b[24~"

	case tea.KeyRunes:
		seq = string(msg.Runes)

	default:
		return ""
	}

	// Alt-modified keys are prefixed with ESC.
	if msg.Alt {
		return "\x1b" + seq
	}
	return seq
}
