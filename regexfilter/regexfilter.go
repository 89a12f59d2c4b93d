// Package regexfilter attaches a compiled-once regular expression filter
// (and, from the same match, parameter resolvers) to a handler (§4.7).
package regexfilter

import (
	"fmt"
	"regexp"

	"github.com/lightq-go/lightq/dispatch"
)

// Extractor pulls the text a pattern is matched against out of a receive
// context. ChainText (the default) stringifies the datum's message chain.
type Extractor func(ctx *dispatch.ReceiveContext) (string, error)

// ChainText is the default Extractor: it stringifies the datum's message
// chain via ResolveChain.
func ChainText(ctx *dispatch.ReceiveContext) (string, error) {
	v, err := dispatch.ResolveChain(ctx)
	if err != nil {
		return "", err
	}
	return v.(interface{ String() string }).String(), nil
}

// matchKey is the context-scoped scratch key a Match/Search/FullMatch
// filter stashes its result under, derived from that filter's own
// pattern text. Keying by pattern rather than by one shared zero-size
// struct gives each distinct pattern its own scratch slot, so stacking
// two regex filters on one handler (or a handler further down the
// router chain reusing the same parameter names) cannot read a match
// written by a different pattern (§4.7's "private, context-scoped
// key" — private per pattern, not merely per package).
type matchKey string

type operation int

const (
	opMatch operation = iota
	opSearch
	opFullMatch
)

// Match returns a Filter that passes when pattern matches at the start of
// the extracted text (the pattern is wrapped in \A(?:...), Go's
// equivalent of re.match); the match need not reach the end.
func Match(pattern string, extract ...Extractor) dispatch.Filter[*dispatch.ReceiveContext] {
	return build(pattern, opMatch, extract)
}

// Search returns a Filter that passes when pattern matches anywhere in
// the extracted text.
func Search(pattern string, extract ...Extractor) dispatch.Filter[*dispatch.ReceiveContext] {
	return build(pattern, opSearch, extract)
}

// FullMatch returns a Filter that passes only when pattern matches the
// entire extracted text.
func FullMatch(pattern string, extract ...Extractor) dispatch.Filter[*dispatch.ReceiveContext] {
	return build(pattern, opFullMatch, extract)
}

func build(pattern string, op operation, extract []Extractor) dispatch.Filter[*dispatch.ReceiveContext] {
	re := regexp.MustCompile(anchor(pattern, op))
	extractor := ChainText
	if len(extract) > 0 {
		extractor = extract[0]
	}
	key := matchKey(pattern)
	return func(ctx *dispatch.ReceiveContext) (bool, error) {
		text, err := extractor(ctx)
		if err != nil {
			return false, err
		}
		m := re.FindStringSubmatch(text)
		if m == nil {
			return false, nil
		}
		ctx.SetScratch(key, &Match{re: re, groups: m})
		return true, nil
	}
}

// anchor adapts a Python-style (unanchored) pattern to Go's regexp engine
// for the match/fullmatch operations, which Go has no direct flags for:
// match anchors at the start only, fullmatch anchors at both ends.
func anchor(pattern string, op operation) string {
	switch op {
	case opMatch:
		return `\A(?:` + pattern + `)`
	case opFullMatch:
		return `\A(?:` + pattern + `)\z`
	default:
		return pattern
	}
}

// Match is the memoised regex result stored on the receive context by a
// passing filter. A handler receives it through a ResolveMatch resolver,
// or a named capture group's text through a ResolveGroup resolver; there
// is no binding by parameter type or name beyond those resolver entries.
type Match struct {
	re     *regexp.Regexp
	groups []string
}

// Group returns the named capture group's captured text, or "" if the
// group did not participate in the match.
func (m *Match) Group(name string) string {
	idx := m.re.SubexpIndex(name)
	if idx < 0 || idx >= len(m.groups) {
		return ""
	}
	return m.groups[idx]
}

// Text returns the whole match.
func (m *Match) Text() string {
	if len(m.groups) == 0 {
		return ""
	}
	return m.groups[0]
}

// ResolveMatch returns a Resolver binding a parameter to the memoised
// result of the Match/Search/FullMatch filter built from the same
// pattern. pattern must match the one passed to the filter it pairs
// with; it errs if that filter never ran on this context (a handler
// declaring this resolver without the matching filter is a usage
// mistake).
func ResolveMatch(pattern string) dispatch.Resolver[*dispatch.ReceiveContext] {
	key := matchKey(pattern)
	return func(ctx *dispatch.ReceiveContext) (any, error) {
		v, ok := ctx.Scratch(key)
		if !ok {
			return nil, fmt.Errorf("lightq/regexfilter: no regex match on this context for pattern %q", pattern)
		}
		return v, nil
	}
}

// ResolveGroup returns a Resolver binding a parameter to the named
// capture group's text, for the match produced by the filter built from
// the same pattern. pattern and name are both captured by value,
// avoiding the classic closure-over-loop-variable bug that arises when
// building one resolver per group name in a loop.
func ResolveGroup(pattern, name string) dispatch.Resolver[*dispatch.ReceiveContext] {
	key := matchKey(pattern)
	captured := name
	return func(ctx *dispatch.ReceiveContext) (any, error) {
		v, ok := ctx.Scratch(key)
		if !ok {
			return nil, fmt.Errorf("lightq/regexfilter: no regex match on this context for pattern %q", pattern)
		}
		return v.(*Match).Group(captured), nil
	}
}
