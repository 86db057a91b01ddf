package message

import (
	"errors"
	"strings"
)

// ErrDisplayUnavailable is returned by Display when the chain was built from
// pre-rendered strings and no element sequence was retained.
var ErrDisplayUnavailable = errors.New("message chain display unavailable: chain was built from strings")

// Chain is an ordered, immutable sequence of elements with a cached wire
// rendering. Order is semantically meaningful (a reply element typically
// precedes plain text). A chain is created per message and never mutated.
type Chain struct {
	elements []Element
	code     string
}

// FromStrings builds a chain whose wire form is the concatenation of parts in
// order. No element sequence is retained, so Display is unavailable.
func FromStrings(parts ...string) *Chain {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part)
	}
	return &Chain{code: b.String()}
}

// New builds a chain from elements, deriving the wire form of each element in
// order and delegating to the string path. The element sequence is retained
// for display rendering. An empty element list yields the empty chain.
func New(elements ...Element) *Chain {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		parts = append(parts, el.Code())
	}
	chain := FromStrings(parts...)
	chain.elements = append([]Element(nil), elements...)
	return chain
}

// Code returns the cached concatenated wire form.
func (c *Chain) Code() string {
	return c.code
}

// Display returns the concatenation of each element's display rendering in
// order. Chains built via FromStrings report ErrDisplayUnavailable.
func (c *Chain) Display() (string, error) {
	if c.elements == nil {
		return "", ErrDisplayUnavailable
	}
	var b strings.Builder
	for _, el := range c.elements {
		b.WriteString(el.Display())
	}
	return b.String(), nil
}

// Elements returns a copy of the retained element sequence, nil for
// string-built chains.
func (c *Chain) Elements() []Element {
	if c.elements == nil {
		return nil
	}
	return append([]Element(nil), c.elements...)
}

// HasElements reports whether the chain retained an element sequence.
func (c *Chain) HasElements() bool {
	return c.elements != nil
}

// DisplayWithout returns the display rendering with elements of the given
// kinds stripped. Matchers use it to ignore mentions or replies ahead of a
// command. String-built chains fall back to the wire cache.
func (c *Chain) DisplayWithout(kinds ...Kind) string {
	if c.elements == nil {
		return c.code
	}
	skip := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		skip[k] = struct{}{}
	}
	var b strings.Builder
	for _, el := range c.elements {
		if _, ok := skip[el.Kind()]; ok {
			continue
		}
		b.WriteString(el.Display())
	}
	return b.String()
}
