package format

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ErrUnclosedTag is returned when an opening tag has no matching closing tag.
var ErrUnclosedTag = errors.New("opening tag without matching closing tag")

// XML extracts and builds XML-style tagged regions.
//
// Example model output:
//
//	<plan>
//	I will call CalculateTool with the expression 15 * 45.
//	</plan>
//
// Tag matching is case-insensitive and tolerates whitespace inside the brackets
// (`< plan >`). Region content may span lines.
type XML struct {
	mu       sync.Mutex
	patterns map[string]*tagPattern
}

type tagPattern struct {
	region  *regexp.Regexp
	opening *regexp.Regexp
}

// NewXML creates a new XML format.
func NewXML() *XML {
	return &XML{
		patterns: make(map[string]*tagPattern),
	}
}

// Extract returns the trimmed content of the first <tag>...</tag> region in output.
//
// Policy:
//   - first complete region wins, later regions are ignored
//   - no opening tag at all: found is false, err is nil
//   - an opening tag without a closing tag: err is ErrUnclosedTag
//
// A partially matched region is never returned.
func (f *XML) Extract(output, tag string) (content string, found bool, err error) {
	p := f.pattern(tag)

	if match := p.region.FindStringSubmatch(output); match != nil {
		return strings.TrimSpace(match[1]), true, nil
	}
	if p.opening.MatchString(output) {
		return "", false, fmt.Errorf("%w: <%s>", ErrUnclosedTag, tag)
	}
	return "", false, nil
}

// ExtractAll returns the trimmed content of every complete <tag>...</tag> region, in order.
func (f *XML) ExtractAll(output, tag string) []string {
	p := f.pattern(tag)

	var result []string
	for _, match := range p.region.FindAllStringSubmatch(output, -1) {
		result = append(result, strings.TrimSpace(match[1]))
	}
	return result
}

// Wrap encloses content in <tag>...</tag> without adding whitespace.
func (f *XML) Wrap(tag, content string) string {
	return "<" + tag + ">" + content + "</" + tag + ">"
}

// pattern returns the compiled patterns for tag, compiling them on first use.
func (f *XML) pattern(tag string) *tagPattern {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.patterns[tag]; ok {
		return p
	}

	// (?s) makes . match newlines; the lazy group stops at the first closing tag.
	quoted := regexp.QuoteMeta(tag)
	p := &tagPattern{
		region:  regexp.MustCompile(fmt.Sprintf(`(?si)<\s*%s\s*>(.*?)<\s*/\s*%s\s*>`, quoted, quoted)),
		opening: regexp.MustCompile(fmt.Sprintf(`(?i)<\s*%s\s*>`, quoted)),
	}
	f.patterns[tag] = p
	return p
}
