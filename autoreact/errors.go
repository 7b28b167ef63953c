package autoreact

import (
	"errors"
	"strings"

	"github.com/mymmrac/telego/telegoapi"
)

// Kind names the known causes of a failed reaction or reply.
type Kind int

const (
	// KindUnknown is any backend failure outside the recognized set.
	KindUnknown Kind = iota
	// KindForbidden means the bot lacks rights to react or post in the chat.
	KindForbidden
	// KindInvalidReaction means the configured emoji is not a valid reaction.
	KindInvalidReaction
	// KindMessageGone means the target message was deleted or is too old.
	KindMessageGone
)

func (k Kind) String() string {
	switch k {
	case KindForbidden:
		return "forbidden"
	case KindInvalidReaction:
		return "invalid_reaction"
	case KindMessageGone:
		return "message_gone"
	default:
		return "unknown"
	}
}

// Classify maps a backend error to a Kind. It prefers the structured API
// error (code and description) and falls back to substring inspection for
// errors that did not come through the Bot API response.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *telegoapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode == 403 {
			return KindForbidden
		}
		return classifyText(apiErr.Description)
	}
	return classifyText(err.Error())
}

func classifyText(text string) Kind {
	switch {
	case strings.Contains(text, "Forbidden"):
		return KindForbidden
	case strings.Contains(text, "REACTION_INVALID"):
		return KindInvalidReaction
	case strings.Contains(text, "message to react not found"),
		strings.Contains(text, "message not found"),
		strings.Contains(text, "MESSAGE_ID_INVALID"):
		return KindMessageGone
	default:
		return KindUnknown
	}
}
