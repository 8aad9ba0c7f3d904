package relay

import (
	"strings"
)

// MaxCallbackData is the Telegram limit for callback data, in bytes.
const MaxCallbackData = 64

const (
	DestinationPrefix = "dest:"
	DecisionPrefix    = "mod:"

	approveMark = "a"
	rejectMark  = "r"
)

// DestinationData encodes a destination menu choice.
func DestinationData(destination string) string {
	return DestinationPrefix + destination
}

// FitsCallbackData reports whether a destination can be offered in the menu.
func FitsCallbackData(destination string) bool {
	return len(DestinationData(destination)) <= MaxCallbackData
}

// ParseDestinationData decodes a menu choice.
func ParseDestinationData(data string) (string, bool) {
	dest, ok := strings.CutPrefix(data, DestinationPrefix)
	if !ok || dest == "" {
		return "", false
	}
	return dest, true
}

// DecisionData encodes a moderator decision for a pending item.
func DecisionData(itemID string, approve bool) string {
	mark := rejectMark
	if approve {
		mark = approveMark
	}
	return DecisionPrefix + mark + ":" + itemID
}

// ParseDecisionData decodes a moderator decision.
func ParseDecisionData(data string) (itemID string, approve bool, ok bool) {
	rest, found := strings.CutPrefix(data, DecisionPrefix)
	if !found {
		return "", false, false
	}
	mark, id, found := strings.Cut(rest, ":")
	if !found || id == "" {
		return "", false, false
	}
	switch mark {
	case approveMark:
		return id, true, true
	case rejectMark:
		return id, false, true
	default:
		return "", false, false
	}
}
