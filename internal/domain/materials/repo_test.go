package materials

import "testing"

func TestComponentsParamNeverBindsNull(t *testing.T) {
	// Plain materials carry no components; the bound value must still be a
	// non-nil slice so the TEXT[] NOT NULL column gets '{}', not NULL.
	plain := Material{Type: TypeCurtain, Name: "Lino"}
	got := componentsParam(plain.ComponentIDs)
	if got == nil {
		t.Fatal("nil ComponentIDs must bind as an empty array")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestComponentsParamKeepsValues(t *testing.T) {
	ids := []string{"a", "b"}
	got := componentsParam(ids)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected %v, got %v", ids, got)
	}
}
