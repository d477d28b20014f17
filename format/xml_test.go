package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML_Extract(t *testing.T) {
	type expected struct {
		content string
		found   bool
		err     error
	}

	tests := []struct {
		name     string
		output   string
		expected expected
	}{
		{
			name:     "single line region",
			output:   "<plan>Use CalculateTool</plan>",
			expected: expected{content: "Use CalculateTool", found: true},
		},
		{
			name: "multiline region is trimmed",
			output: `Here is my plan:
<plan>
    I should first call CalculateTool.
    Then answer.
</plan>`,
			expected: expected{
				content: "I should first call CalculateTool.\n    Then answer.",
				found:   true,
			},
		},
		{
			name:     "empty region",
			output:   "<plan></plan>",
			expected: expected{content: "", found: true},
		},
		{
			name:     "whitespace only region",
			output:   "<plan>\n   \n</plan>",
			expected: expected{content: "", found: true},
		},
		{
			name:     "first region wins",
			output:   "<plan>first</plan>\n<plan>second</plan>",
			expected: expected{content: "first", found: true},
		},
		{
			name:     "case insensitive and spaced tags",
			output:   "< PLAN >upper</ Plan >",
			expected: expected{content: "upper", found: true},
		},
		{
			name:     "absent tag",
			output:   "I don't think any tool is needed.",
			expected: expected{content: "", found: false},
		},
		{
			name:     "unclosed tag",
			output:   "<plan>I will call the tool and then",
			expected: expected{content: "", found: false, err: ErrUnclosedTag},
		},
		{
			name:     "closing tag only",
			output:   "nothing here</plan>",
			expected: expected{content: "", found: false},
		},
		{
			name:     "other tags are ignored",
			output:   "<task>What is 2+2?</task>",
			expected: expected{content: "", found: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewXML()

			content, found, err := f.Extract(tt.output, "plan")

			if tt.expected.err != nil {
				require.ErrorIs(t, err, tt.expected.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected.content, content)
			assert.Equal(t, tt.expected.found, found)
		})
	}
}

func TestXML_ExtractAll(t *testing.T) {
	f := NewXML()

	output := "<plan> a </plan> noise <plan>b</plan> <plan>unclosed"

	assert.Equal(t, []string{"a", "b"}, f.ExtractAll(output, "plan"))
	assert.Nil(t, f.ExtractAll("no tags", "plan"))
}

func TestXML_Wrap(t *testing.T) {
	f := NewXML()

	assert.Equal(t, "<agent_answer>675</agent_answer>", f.Wrap("agent_answer", "675"))
	assert.Equal(t, "<agent_answer></agent_answer>", f.Wrap("agent_answer", ""))
}

func TestXML_WrapThenExtract(t *testing.T) {
	f := NewXML()

	wrapped := f.Wrap("agent_answer", "  The answer is 675.  ")
	content, found, err := f.Extract(wrapped, "agent_answer")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "The answer is 675.", content)
}
