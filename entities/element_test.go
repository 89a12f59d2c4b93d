package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/lightq-go/lightq/entities"
)

func TestMessageChain_String_SkipsSourceAndUnsupported(t *testing.T) {
	chain := entities.MessageChain{
		entities.Source{ID: 1, Time: 100},
		entities.Plain{Text: "hello "},
		entities.At{Target: 42, Display: "bob"},
		entities.Unsupported{Type: "MarketFace", Raw: json.RawMessage(`{}`)},
		entities.Plain{Text: "!"},
	}

	got := chain.String()
	want := "hello @bob!"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestMessageChain_UnmarshalJSON_UnknownTypeFallsBackToUnsupported(t *testing.T) {
	raw := []byte(`[
		{"type":"Plain","text":"hi"},
		{"type":"MarketFace","id":7}
	]`)

	var chain entities.MessageChain
	if err := json.Unmarshal(raw, &chain); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("len(chain) = %d, want 2", len(chain))
	}
	if _, ok := chain[0].(entities.Plain); !ok {
		t.Errorf("chain[0] = %T, want Plain", chain[0])
	}
	u, ok := chain[1].(entities.Unsupported)
	if !ok {
		t.Fatalf("chain[1] = %T, want Unsupported", chain[1])
	}
	if u.Type != "MarketFace" {
		t.Errorf("u.Type = %q, want MarketFace", u.Type)
	}
}

func TestMessageChain_MarshalRoundTrip(t *testing.T) {
	chain := entities.MessageChain{
		entities.Plain{Text: "hi"},
		entities.At{Target: 1, Display: "x"},
	}
	data, err := json.Marshal(chain)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded entities.MessageChain
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.String() != chain.String() {
		t.Errorf("round trip changed text: got %q, want %q", decoded.String(), chain.String())
	}
}

func TestGetAllAndContains(t *testing.T) {
	chain := entities.MessageChain{
		entities.At{Target: 1, Display: "a"},
		entities.Plain{Text: "x"},
		entities.At{Target: 2, Display: "b"},
	}
	ats := entities.GetAll[entities.At](chain)
	if len(ats) != 2 {
		t.Fatalf("len(ats) = %d, want 2", len(ats))
	}
	if !entities.Contains[entities.Plain](chain) {
		t.Error("Contains[Plain] = false, want true")
	}
	if entities.Contains[entities.Image](chain) {
		t.Error("Contains[Image] = true, want false")
	}
	targets := entities.AtTargets(chain)
	if len(targets) != 2 || targets[0] != 1 || targets[1] != 2 {
		t.Errorf("AtTargets = %v, want [1 2]", targets)
	}
}
