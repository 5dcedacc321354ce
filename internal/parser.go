package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Candidate field names, in precedence order, for the many historical
// transcript schemas. Extraction always takes the first name that yields a
// usable value and never merges across candidates.
var (
	contentObjectFields  = []string{"text", "value", "content", "message"}
	messageContentFields = []string{"content", "text", "message", "body", "value"}
	roleFields           = []string{"role", "type", "sender", "author", "kind"}
	containerFields      = []string{"messages", "requests", "history", "chatHistory", "conversation", "turns", "exchanges"}
	requestSideFields    = []string{"request", "message", "prompt"}
	responseSideFields   = []string{"response", "reply", "answer"}
	timestampFields      = []string{"timestamp", "ts", "time", "createdAt", "created_at", "date"}
	toolCallFields       = []string{"toolCalls", "tool_calls", "toolInvocations"}
	toolResultFields     = []string{"toolResults", "tool_results", "toolOutputs"}
)

// roleAliases maps the role spellings seen across schema generations to
// normalized roles. Matching is case-sensitive on purpose: these are the
// literal values the editors write.
var roleAliases = map[string]string{
	"user":      RoleUser,
	"human":     RoleUser,
	"Human":     RoleUser,
	"you":       RoleUser,
	"assistant": RoleAssistant,
	"bot":       RoleAssistant,
	"ai":        RoleAssistant,
	"model":     RoleAssistant,
	"copilot":   RoleAssistant,
	"gpt":       RoleAssistant,
	"system":    RoleSystem,
	"System":    RoleSystem,
}

// ExtractContent reduces an arbitrary JSON value to plain text. Strings pass
// through verbatim, arrays are extracted element-wise and joined with
// newlines (empty elements dropped), objects yield the first candidate field
// that extracts to non-empty text, and everything else yields "".
func ExtractContent(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		var parts []string
		for _, el := range val {
			if s := ExtractContent(el); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]interface{}:
		for _, field := range contentObjectFields {
			if sub, ok := val[field]; ok {
				if s := ExtractContent(sub); s != "" {
					return s
				}
			}
		}
		return ""
	default:
		return ""
	}
}

// ExtractMessage interprets one record as a flat conversational turn. A
// record that yields neither a known role nor any content is junk and is
// rejected rather than constructed.
func ExtractMessage(v interface{}) (ChatMessage, bool) {
	rec, ok := v.(map[string]interface{})
	if !ok {
		return ChatMessage{}, false
	}

	role := extractRole(rec)

	var content string
	for _, field := range messageContentFields {
		if sub, ok := rec[field]; ok {
			if s := ExtractContent(sub); s != "" {
				content = s
				break
			}
		}
	}

	if role == RoleUnknown && content == "" {
		return ChatMessage{}, false
	}

	msg := ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: extractTimestamp(rec),
	}
	for _, field := range toolCallFields {
		if v, ok := rec[field]; ok {
			msg.ToolCalls = v
			break
		}
	}
	for _, field := range toolResultFields {
		if v, ok := rec[field]; ok {
			msg.ToolResults = v
			break
		}
	}
	return msg, true
}

// extractRole probes the role-bearing candidate fields. String values go
// through the alias table; numeric values follow the 1=user/2=assistant
// convention some stores use.
func extractRole(rec map[string]interface{}) string {
	for _, field := range roleFields {
		switch v := rec[field].(type) {
		case string:
			if role, ok := roleAliases[v]; ok {
				return role
			}
		case float64:
			switch v {
			case 1:
				return RoleUser
			case 2:
				return RoleAssistant
			}
		}
	}
	return RoleUnknown
}

// extractTimestamp probes the timestamp-bearing candidate fields.
func extractTimestamp(rec map[string]interface{}) time.Time {
	for _, field := range timestampFields {
		if v, ok := rec[field]; ok {
			if t := parseTimeValue(v); !t.IsZero() {
				return t
			}
		}
	}
	return time.Time{}
}

// parseTimeValue converts a numeric epoch (seconds or milliseconds, decided
// by magnitude) or a loosely formatted date string to a time.Time. Values
// that parse as nothing yield the zero time.
func parseTimeValue(v interface{}) time.Time {
	switch ts := v.(type) {
	case float64:
		if ts <= 0 {
			return time.Time{}
		}
		n := int64(ts)
		if n > 1e12 {
			return time.Unix(0, n*int64(time.Millisecond))
		}
		return time.Unix(n, 0)
	case string:
		if ts == "" {
			return time.Time{}
		}
		if t, err := dateparse.ParseAny(ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ExtractMessages pulls the ordered message list out of a session-level
// value. Objects are probed for the container candidates first; the first
// container that is a list and yields at least one message wins outright.
// An object with no productive container is then tried as a request/response
// pair and finally as a single flat record. Arrays are treated as a list of
// records directly.
func ExtractMessages(v interface{}, keepRaw bool) []ChatMessage {
	switch val := v.(type) {
	case []interface{}:
		return messagesFromList(val, keepRaw)
	case map[string]interface{}:
		for _, field := range containerFields {
			list, ok := val[field].([]interface{})
			if !ok {
				continue
			}
			if msgs := messagesFromList(list, keepRaw); len(msgs) > 0 {
				return msgs
			}
		}
		if msgs, ok := pairMessages(val); ok {
			return attachRaw(msgs, val, keepRaw)
		}
		if msg, ok := ExtractMessage(val); ok {
			return attachRaw([]ChatMessage{msg}, val, keepRaw)
		}
		return nil
	default:
		return nil
	}
}

func messagesFromList(list []interface{}, keepRaw bool) []ChatMessage {
	var msgs []ChatMessage
	for _, el := range list {
		if pair, ok := pairMessages(el); ok {
			msgs = append(msgs, attachRaw(pair, el, keepRaw)...)
			continue
		}
		if msg, ok := ExtractMessage(el); ok {
			msgs = append(msgs, attachRaw([]ChatMessage{msg}, el, keepRaw)...)
		}
	}
	return msgs
}

// pairMessages recognizes the request/response exchange shape: one record
// standing for up to two turns. The shape is claimed only when a literal
// "request" or "response" key is present, so flat records that merely use
// "message" as their content field stay on the flat path.
func pairMessages(v interface{}) ([]ChatMessage, bool) {
	rec, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	_, hasRequest := rec["request"]
	_, hasResponse := rec["response"]
	if !hasRequest && !hasResponse {
		return nil, false
	}

	ts := extractTimestamp(rec)
	var msgs []ChatMessage
	for _, field := range requestSideFields {
		if sub, ok := rec[field]; ok {
			if s := ExtractContent(sub); s != "" {
				msgs = append(msgs, ChatMessage{Role: RoleUser, Content: s, Timestamp: ts})
				break
			}
		}
	}
	for _, field := range responseSideFields {
		if sub, ok := rec[field]; ok {
			if s := ExtractContent(sub); s != "" {
				msgs = append(msgs, ChatMessage{Role: RoleAssistant, Content: s, Timestamp: ts})
				break
			}
		}
	}
	return msgs, true
}

func attachRaw(msgs []ChatMessage, raw interface{}, keepRaw bool) []ChatMessage {
	if !keepRaw {
		return msgs
	}
	for i := range msgs {
		msgs[i].Raw = raw
	}
	return msgs
}
