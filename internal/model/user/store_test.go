package user

import "testing"

func TestNewMemoryStoreCopiesSeed(t *testing.T) {
	seed := Seed()
	store := NewMemoryStore(seed, "")

	seed[0].Name = "changed"

	store.View(func(items []User) {
		if items[0].Name != "Ahmet Yılmaz" {
			t.Fatalf("store shares memory with seed slice: %q", items[0].Name)
		}
	})
	if store.Strategy() != IDStrategyLength {
		t.Fatalf("expected default strategy length, got %s", store.Strategy())
	}
}

func TestNextIDSequenceTracksHighWaterMark(t *testing.T) {
	store := NewMemoryStore(Seed(), IDStrategySequence)

	store.Mutate(func(items []User) []User {
		return items[:0]
	})

	var next int
	store.Mutate(func(items []User) []User {
		next = store.NextID(items)
		return items
	})
	if next != 3 {
		t.Fatalf("expected next id 3 after emptying store, got %d", next)
	}
}

func TestParseIDStrategy(t *testing.T) {
	cases := map[string]IDStrategy{
		"":          IDStrategyLength,
		"length":    IDStrategyLength,
		" Sequence": IDStrategySequence,
	}
	for raw, want := range cases {
		got, err := ParseIDStrategy(raw)
		if err != nil {
			t.Fatalf("ParseIDStrategy(%q) err: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseIDStrategy(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseIDStrategy("uuid"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestPatchApply(t *testing.T) {
	name := "Zeynep"
	u := Patch{Name: &name}.Apply(Seed()[0])
	if u.Name != "Zeynep" || u.Email != "ahmet.yilmaz@example.com" {
		t.Fatalf("unexpected merge result: %+v", u)
	}

	full := PatchFrom(Fields{Name: "A"}).Apply(Seed()[0])
	if full.Email != "" || full.Address != "" {
		t.Fatalf("full patch should overwrite every field: %+v", full)
	}
}
