package serialize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// runContext is the per-invocation state: resolved options, the random run
// ID that namespaces placeholder tokens, and the per-category sink lists.
// Nested pipeline invocations (container reconstruction) get fresh contexts,
// so tokens from different runs can never collide.
type runContext struct {
	opts   Options
	indent string
	runID  string
	sinks  [numCategories][]any
}

// getterEntry is what the Getter sink holds: the owning key, the accessor's
// source text when it matched the single-getter pattern (empty otherwise),
// and the resolved value for the fallback path.
type getterEntry struct {
	key      string
	source   string
	resolved any
}

func newRunContext(opts Options, indent string) *runContext {
	return &runContext{
		opts:   opts,
		indent: indent,
		runID:  newRunID(),
	}
}

// newRunID returns a fixed-length random hex identifier.
func newRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// sink appends v to its category list and returns the placeholder token
// standing in for it. Positions are append-only and never reused.
func (c *runContext) sink(cat Category, v any) string {
	idx := len(c.sinks[cat])
	c.sinks[cat] = append(c.sinks[cat], v)
	return fmt.Sprintf("@__%c-%s-%d__@", cat.tag(), c.runID, idx)
}

// empty reports whether nothing was tagged, i.e. the encoded text is final.
func (c *runContext) empty() bool {
	for _, s := range c.sinks {
		if len(s) > 0 {
			return false
		}
	}
	return true
}

// tagged returns the total number of sunk values.
func (c *runContext) tagged() int {
	n := 0
	for _, s := range c.sinks {
		n += len(s)
	}
	return n
}

// pretty reports whether indentation is on.
func (c *runContext) pretty() bool { return c.indent != "" }
