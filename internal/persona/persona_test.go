package persona

import "testing"

func TestGet(t *testing.T) {
	for _, id := range []string{Researcher, Theorist, Applied, Verdict} {
		p := Get(id)
		if p == nil {
			t.Fatalf("builtin persona %s not found", id)
		}
		if p.Directive == "" {
			t.Errorf("persona %s has empty directive", id)
		}
	}

	if Get("nonexistent") != nil {
		t.Error("expected nil for unknown persona")
	}
}

func TestIsBuiltin(t *testing.T) {
	if !IsBuiltin(Theorist) {
		t.Error("theorist should be builtin")
	}
	if IsBuiltin("custom_one") {
		t.Error("custom_one should not be builtin")
	}
}

func TestListStable(t *testing.T) {
	a := List()
	b := List()
	if len(a) != len(b) || len(a) != 4 {
		t.Fatalf("expected 4 builtins, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Errorf("builtin order changed at %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}
