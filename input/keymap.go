package input

// Key is one decoded key press. Printable keys carry their rune value,
// non-printable keys use the negative range below.
type Key int

const (
	KeyLeft Key = -(iota + 1)
	KeyRight
	KeyUp
	KeyDown
)

// Event is a dispatched action with its optional argument. Value is the
// volume percentage for ActionVolumeSet, zero otherwise.
type Event struct {
	Action Action
	Value  int
}

// keymap is the fixed key table. The transport row follows the classic
// z x c v b layout, everything else sticks to one mnemonic letter.
var keymap = map[Key]Action{
	'q':    ActionQuit,
	'Q':    ActionQuit,
	'\x03': ActionQuit,

	'z': ActionPrev,
	'x': ActionPlay,
	'c': ActionPause,
	'v': ActionStop,
	'b': ActionNext,

	KeyLeft:  ActionSeekBackward,
	KeyRight: ActionSeekForward,
	'h':      ActionSeekBackward,
	'l':      ActionSeekForward,

	'r': ActionToggleRepeat,
	'R': ActionToggleRandom,
	's': ActionToggleStopAfter,

	't': ActionToggleTag,
	'i': ActionInvertTags,
	'd': ActionDelete,
	'D': ActionDeleteTagged,
	'E': ActionClear,
	'm': ActionMoveTaggedAfter,
	'M': ActionMoveTaggedBefore,
	'Z': ActionShuffle,
	'S': ActionSort,
	'@': ActionJumpToActive,
	'w': ActionSavePlaylist,

	'+': ActionVolumeUp,
	'=': ActionVolumeUp,
	'-': ActionVolumeDown,
	'V': ActionChannelCycle,

	'e':     ActionToggleCounter,
	'\f':    ActionRefresh,
	KeyUp:   ActionVolumeUp,
	KeyDown: ActionVolumeDown,

	',': ActionMacro,
}

// Translate maps a key press to its event. Digits become absolute volume
// levels, 1 through 9 for 10% through 90% and 0 for full volume. Unbound
// keys translate to ActionNone.
func Translate(k Key) Event {
	if k >= '0' && k <= '9' {
		percent := int(k-'0') * 10
		if percent == 0 {
			percent = 100
		}
		return Event{Action: ActionVolumeSet, Value: percent}
	}
	if action, ok := keymap[k]; ok {
		return Event{Action: action}
	}
	return Event{Action: ActionNone}
}
