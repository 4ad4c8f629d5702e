// Package hooks implements agent hook handlers that read a tool-invocation
// event from stdin and answer on stdout.
package hooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// HookInput is the JSON payload piped to hooks via stdin.
type HookInput struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// FilePath extracts "file_path" from tool_input (Write/Edit tools). A missing
// tool_input or a missing field yields "". A tool_input that is not an object,
// or a file_path that is not a string, is an error.
func (h *HookInput) FilePath() (string, error) {
	if len(h.ToolInput) == 0 {
		return "", nil
	}
	if !isObject(h.ToolInput) {
		return "", fmt.Errorf("tool_input is not an object: %s", h.ToolInput)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(h.ToolInput, &fields); err != nil {
		return "", fmt.Errorf("parsing tool_input: %w", err)
	}
	raw, ok := fields["file_path"]
	if !ok {
		return "", nil
	}
	if isNull(raw) {
		return "", errors.New("tool_input.file_path is null")
	}
	var p string
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("tool_input.file_path: %w", err)
	}
	return p, nil
}

func isObject(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) > 0 && b[0] == '{'
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// HookResult is the JSON output from a hook.
type HookResult struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Block asks the host to pause and show reason to the user.
func Block(reason string) HookResult {
	return HookResult{Decision: "block", Reason: reason}
}

// ReadInput reads and parses HookInput from the given reader. The payload
// must be a JSON object.
func ReadInput(r io.Reader) (HookInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return HookInput{}, fmt.Errorf("reading stdin: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return HookInput{}, errors.New("parsing input: empty payload")
	}
	if !isObject(data) {
		return HookInput{}, fmt.Errorf("parsing input: payload is not an object: %.40s", data)
	}
	var input HookInput
	if err := json.Unmarshal(data, &input); err != nil {
		return HookInput{}, fmt.Errorf("parsing input: %w", err)
	}
	return input, nil
}

// IsHookDisabled returns true if name is listed in HOOK_DISABLED (comma-separated, trimmed).
func IsHookDisabled(name string) bool {
	v := os.Getenv("HOOK_DISABLED")
	if v == "" {
		return false
	}
	for _, s := range strings.Split(v, ",") {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}
