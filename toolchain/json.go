package toolchain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickchristie/planact"
)

// Action is a tool invocation parsed from one line of model output:
//
//	Action: {"tool": "CalculateTool", "parameters": {"expression": "15 * 45"}}
type Action struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// FindActions returns the JSON payload of every action line in reply, in order.
//
// A line matches when, after trimming surrounding whitespace, it is exactly
// planact.ActionPrefix followed by a value that starts with '{' and ends with '}'.
// Prose that merely mentions "Action:" mid-line does not match.
func FindActions(reply string) []string {
	var payloads []string
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		payload, ok := strings.CutPrefix(line, planact.ActionPrefix)
		if !ok {
			continue
		}
		if strings.HasPrefix(payload, "{") && strings.HasSuffix(payload, "}") {
			payloads = append(payloads, payload)
		}
	}
	return payloads
}

// ParseAction parses the first action line of reply.
//
// Returns found == false when reply contains no action line. When several action lines are
// present only the first is used. A payload that is not a JSON object with a string "tool"
// field returns an error wrapping planact.ErrMalformedAction. A missing "parameters" field
// decodes as an empty map.
func ParseAction(reply string) (action *Action, found bool, err error) {
	payloads := FindActions(reply)
	if len(payloads) == 0 {
		return nil, false, nil
	}

	action, err = DecodeAction(payloads[0])
	if err != nil {
		return nil, true, err
	}
	return action, true, nil
}

// DecodeAction decodes a single action payload.
func DecodeAction(payload string) (*Action, error) {
	var raw struct {
		Tool       *string         `json:"tool"`
		Parameters json.RawMessage `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", planact.ErrMalformedAction, payload, err)
	}
	if raw.Tool == nil {
		return nil, fmt.Errorf("%w: %s: missing \"tool\"", planact.ErrMalformedAction, payload)
	}

	params := map[string]any{}
	if len(raw.Parameters) > 0 && string(raw.Parameters) != "null" {
		if err := json.Unmarshal(raw.Parameters, &params); err != nil {
			return nil, fmt.Errorf("%w: %s: \"parameters\" must be an object: %v",
				planact.ErrMalformedAction, payload, err)
		}
	}

	return &Action{Tool: *raw.Tool, Parameters: params}, nil
}

// EncodeObservation serializes a tool result for the next executor prompt. HTML characters
// are not escaped so the model sees the tool's text as written. Separators are followed by a
// space, as in the executor prompt's examples: {"result": 675}.
func EncodeObservation(observation map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(observation); err != nil {
		return "", fmt.Errorf("encode observation: %w", err)
	}
	return spaceSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// spaceSeparators adds a space after every ',' and ':' of compact JSON that is outside a
// string.
func spaceSeparators(compact []byte) string {
	var sb strings.Builder
	sb.Grow(len(compact) + len(compact)/4)
	inString, escaped := false, false
	for _, c := range compact {
		sb.WriteByte(c)
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ',' || c == ':'):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// ObservationPrompt returns the executor prompt that reports observation to the model.
func ObservationPrompt(observation map[string]any) (string, error) {
	encoded, err := EncodeObservation(observation)
	if err != nil {
		return "", err
	}
	return planact.ObservationPrefix + encoded, nil
}
