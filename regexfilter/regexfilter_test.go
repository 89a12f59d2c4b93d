package regexfilter_test

import (
	"testing"

	"github.com/lightq-go/lightq/dispatch"
	"github.com/lightq-go/lightq/entities"
	"github.com/lightq-go/lightq/regexfilter"
)

func muteContext() *dispatch.ReceiveContext {
	datum := entities.GroupMessage{
		MessageSender: entities.Member{ID: 1, Group: entities.Group{ID: 500}},
		MessageChain_: entities.MessageChain{entities.Plain{Text: "/mute 12345 60"}},
	}
	return dispatch.NewReceiveContext(nil, datum)
}

// TestFullMatch_S1 covers the S1 end-to-end scenario's filter/resolver
// half: a /mute command captures member_id and duration, and the handler
// sees them as string arguments under those names.
const mutePattern = `/mute\s+(?P<member_id>\d+)\s+(?P<duration>\d+)`

func TestFullMatch_S1(t *testing.T) {
	filter := regexfilter.FullMatch(mutePattern)

	h := &dispatch.MessageHandler{
		Filters: []dispatch.Filter[*dispatch.ReceiveContext]{filter},
		Resolvers: map[string]dispatch.Resolver[*dispatch.ReceiveContext]{
			"member_id": regexfilter.ResolveGroup(mutePattern, "member_id"),
			"duration":  regexfilter.ResolveGroup(mutePattern, "duration"),
		},
		Callback: func(args map[string]any) (any, error) {
			if args["member_id"] != "12345" || args["duration"] != "60" {
				t.Errorf("args = %v, want member_id=12345 duration=60", args)
			}
			return nil, nil
		},
	}

	ctx := muteContext()
	can, err := h.CanHandle(ctx)
	if err != nil {
		t.Fatalf("CanHandle: %v", err)
	}
	if !can {
		t.Fatal("CanHandle = false, want true")
	}
	if _, err := h.Handle(ctx); err != nil {
		t.Fatalf("Handle: %v", err)
	}
}

func TestFullMatch_RejectsNonMatchingText(t *testing.T) {
	filter := regexfilter.FullMatch(`/weather`)
	ctx := muteContext() // text is "/mute 12345 60", not "/weather"
	can, err := filter(ctx)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if can {
		t.Error("FullMatch(/weather) should not match a /mute command")
	}
}

func TestFullMatch_PartialTextDoesNotMatch(t *testing.T) {
	datum := entities.GroupMessage{MessageChain_: entities.MessageChain{entities.Plain{Text: "say /weather please"}}}
	ctx := dispatch.NewReceiveContext(nil, datum)
	can, err := regexfilter.FullMatch(`/weather`)(ctx)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if can {
		t.Error("FullMatch should require the whole text to match, not a substring")
	}
}

func TestSearch_MatchesSubstring(t *testing.T) {
	datum := entities.GroupMessage{MessageChain_: entities.MessageChain{entities.Plain{Text: "say /weather please"}}}
	ctx := dispatch.NewReceiveContext(nil, datum)
	can, err := regexfilter.Search(`/weather`)(ctx)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !can {
		t.Error("Search should match a substring")
	}
}

// TestRegexMemoisation covers §8 property 9: the regex runs once per
// dispatch even though two parameters (plus the match object) read from
// it.
func TestRegexMemoisation(t *testing.T) {
	evalCount := 0
	countingExtractor := func(ctx *dispatch.ReceiveContext) (string, error) {
		evalCount++
		return regexfilter.ChainText(ctx)
	}
	filter := regexfilter.FullMatch(mutePattern, countingExtractor)

	ctx := muteContext()
	can, err := filter(ctx)
	if err != nil || !can {
		t.Fatalf("filter: can=%v err=%v", can, err)
	}
	if evalCount != 1 {
		t.Fatalf("extractor called %d times by the filter, want 1", evalCount)
	}

	// Reading the match three different ways must not re-run the regex:
	// the filter already stashed the result in the context's scratch map.
	if _, err := regexfilter.ResolveMatch(mutePattern)(ctx); err != nil {
		t.Fatalf("ResolveMatch: %v", err)
	}
	if _, err := regexfilter.ResolveGroup(mutePattern, "member_id")(ctx); err != nil {
		t.Fatalf("ResolveGroup(member_id): %v", err)
	}
	if _, err := regexfilter.ResolveGroup(mutePattern, "duration")(ctx); err != nil {
		t.Fatalf("ResolveGroup(duration): %v", err)
	}
	if evalCount != 1 {
		t.Errorf("extractor called %d times total, want 1 (memoised)", evalCount)
	}
}

// TestResolveGroup_ClosureCapturesByValue guards against the classic bug
// of building resolvers in a loop and capturing the loop variable by
// reference.
func TestResolveGroup_ClosureCapturesByValue(t *testing.T) {
	names := []string{"member_id", "duration"}
	resolvers := make([]dispatch.Resolver[*dispatch.ReceiveContext], len(names))
	for i, name := range names {
		resolvers[i] = regexfilter.ResolveGroup(mutePattern, name)
	}

	ctx := muteContext()
	filter := regexfilter.FullMatch(mutePattern)
	if can, err := filter(ctx); err != nil || !can {
		t.Fatalf("filter: can=%v err=%v", can, err)
	}

	got0, err := resolvers[0](ctx)
	if err != nil {
		t.Fatalf("resolvers[0]: %v", err)
	}
	got1, err := resolvers[1](ctx)
	if err != nil {
		t.Fatalf("resolvers[1]: %v", err)
	}
	if got0 != "12345" || got1 != "60" {
		t.Errorf("got (%v, %v), want (12345, 60)", got0, got1)
	}
}

// TestStackedPatterns_DoNotCollide covers the scratch-key isolation two
// distinct regex filters need when both run against the same context:
// each pattern's match must land in its own slot, not overwrite the
// other's.
func TestStackedPatterns_DoNotCollide(t *testing.T) {
	ctx := muteContext() // text is "/mute 12345 60"

	muteFilter := regexfilter.FullMatch(mutePattern)
	if can, err := muteFilter(ctx); err != nil || !can {
		t.Fatalf("muteFilter: can=%v err=%v", can, err)
	}

	const prefixPattern = `/(?P<verb>\w+).*`
	prefixFilter := regexfilter.Search(prefixPattern)
	if can, err := prefixFilter(ctx); err != nil || !can {
		t.Fatalf("prefixFilter: can=%v err=%v", can, err)
	}

	memberID, err := regexfilter.ResolveGroup(mutePattern, "member_id")(ctx)
	if err != nil {
		t.Fatalf("ResolveGroup(mutePattern, member_id): %v", err)
	}
	if memberID != "12345" {
		t.Errorf("member_id = %v, want 12345 (prefixFilter's later match must not overwrite mutePattern's slot)", memberID)
	}

	verb, err := regexfilter.ResolveGroup(prefixPattern, "verb")(ctx)
	if err != nil {
		t.Fatalf("ResolveGroup(prefixPattern, verb): %v", err)
	}
	if verb != "mute" {
		t.Errorf("verb = %v, want mute", verb)
	}
}
