// Package input translates terminal key presses into player actions.
package input

// Action is one player operation. Keys, remote-control verbs and macros all
// resolve to a value of this enum before the event loop dispatches them.
type Action int

const (
	ActionNone Action = iota

	ActionQuit
	ActionPlay
	ActionPause
	ActionStop
	ActionNext
	ActionPrev
	ActionSeekForward
	ActionSeekBackward

	ActionToggleRepeat
	ActionToggleRandom
	ActionToggleStopAfter

	ActionToggleTag
	ActionInvertTags
	ActionDelete
	ActionDeleteTagged
	ActionClear
	ActionMoveTaggedAfter
	ActionMoveTaggedBefore
	ActionShuffle
	ActionSort
	ActionJumpToActive
	ActionSavePlaylist
	ActionAdd

	ActionVolumeUp
	ActionVolumeDown
	ActionVolumeSet
	ActionChannelCycle

	ActionToggleCounter
	ActionRefresh
	ActionMacro
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionQuit:             "quit",
	ActionPlay:             "play",
	ActionPause:            "pause",
	ActionStop:             "stop",
	ActionNext:             "next",
	ActionPrev:             "prev",
	ActionSeekForward:      "forward",
	ActionSeekBackward:     "backward",
	ActionToggleRepeat:     "repeat",
	ActionToggleRandom:     "random",
	ActionToggleStopAfter:  "stop-after",
	ActionToggleTag:        "tag",
	ActionInvertTags:       "invert-tags",
	ActionDelete:           "delete",
	ActionDeleteTagged:     "delete-tagged",
	ActionClear:            "empty",
	ActionMoveTaggedAfter:  "move-after",
	ActionMoveTaggedBefore: "move-before",
	ActionShuffle:          "shuffle",
	ActionSort:             "sort",
	ActionJumpToActive:     "jump",
	ActionSavePlaylist:     "save",
	ActionAdd:              "add",
	ActionVolumeUp:         "volume-up",
	ActionVolumeDown:       "volume-down",
	ActionVolumeSet:        "volume",
	ActionChannelCycle:     "channel",
	ActionToggleCounter:    "counter",
	ActionRefresh:          "refresh",
	ActionMacro:            "macro",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}
