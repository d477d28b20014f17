package tt

import (
	"strings"
	"testing"

	"github.com/rickchristie/planact"
	"github.com/stretchr/testify/assert"
)

// Roles returns the role of each message, in order.
func Roles(messages []planact.Message) []planact.Role {
	roles := make([]planact.Role, len(messages))
	for i, m := range messages {
		roles[i] = m.Role
	}
	return roles
}

// AssertRoles checks that messages have exactly the given roles, in order.
func AssertRoles(t *testing.T, messages []planact.Message, expected ...planact.Role) {
	t.Helper()
	assert.Equal(t, expected, Roles(messages), "message roles")
}

// AssertMessagesEqual compares two conversations and reports the first differing message
// with both contents, which is easier to read than a full slice diff for long prompts.
func AssertMessagesEqual(t *testing.T, expected, actual []planact.Message) {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "message count") {
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			assert.Failf(t, "message mismatch",
				"index %d\nexpected %s: %q\nactual   %s: %q",
				i, expected[i].Role, expected[i].Content, actual[i].Role, actual[i].Content)
			return
		}
	}
}

// CountContaining returns how many messages contain substr.
func CountContaining(messages []planact.Message, substr string) int {
	n := 0
	for _, m := range messages {
		if strings.Contains(m.Content, substr) {
			n++
		}
	}
	return n
}
