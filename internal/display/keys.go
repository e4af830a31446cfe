package display

// Key is a watchface command, independent of the surface it came from.
type Key int

const (
	KeyNone Key = iota
	KeyQuit
	KeyNext
	KeySleep
	KeyWake
	KeyCycleBackground
)

func (k Key) String() string {
	switch k {
	case KeyQuit:
		return "quit"
	case KeyNext:
		return "next"
	case KeySleep:
		return "sleep"
	case KeyWake:
		return "wake"
	case KeyCycleBackground:
		return "cycle-background"
	}
	return "none"
}

// KeyForRune maps the single-letter bindings.
func KeyForRune(r rune) Key {
	switch r {
	case 'q', 'Q':
		return KeyQuit
	case 'n', 'N':
		return KeyNext
	case 's', 'S':
		return KeySleep
	case 'w', 'W':
		return KeyWake
	case 'c', 'C':
		return KeyCycleBackground
	}
	return KeyNone
}
