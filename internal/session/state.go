package session

import (
	"strconv"
	"strings"
)

// State is a position in the navigation state machine.
type State int

const (
	// AwaitingURL prompts the operator for a URL.
	AwaitingURL State = iota
	// Fetching retrieves, saves and extracts the target URL.
	Fetching
	// Parsed shows the action menu for the current page.
	Parsed
	// ChoosingLink asks for a link number.
	ChoosingLink
	// ChoosingImage asks for an image number.
	ChoosingImage
	// Terminal ends the session.
	Terminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case AwaitingURL:
		return "awaiting-url"
	case Fetching:
		return "fetching"
	case Parsed:
		return "parsed"
	case ChoosingLink:
		return "choosing-link"
	case ChoosingImage:
		return "choosing-image"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Action is an operator choice from the page menu.
type Action int

const (
	// ActionInvalid is any unrecognized input.
	ActionInvalid Action = iota
	// ActionList follows a link.
	ActionList
	// ActionImage downloads an image.
	ActionImage
	// ActionQuit ends the session.
	ActionQuit
)

// ParseAction maps menu input to an Action. Input is trimmed and matched
// case-insensitively against "l"/"list", "i"/"image" and "q"/"quit".
func ParseAction(input string) Action {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "l", "list":
		return ActionList
	case "i", "image":
		return ActionImage
	case "q", "quit":
		return ActionQuit
	default:
		return ActionInvalid
	}
}

// ParseChoice parses a 1-based menu index for a list of n entries.
// It accepts only integers in [1, n] after trimming surrounding space.
func ParseChoice(input string, n int) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 1 || v > n {
		return 0, false
	}
	return v, true
}
