package virtue

import "testing"

func TestCatalogIDsContiguous(t *testing.T) {
	all := All()
	if len(all) != Count {
		t.Fatalf("expected %d virtues, got %d", Count, len(all))
	}
	for i, v := range all {
		if v.ID != i+1 {
			t.Fatalf("expected id %d at position %d, got %d", i+1, i, v.ID)
		}
		if v.Title == "" || v.Precept == "" {
			t.Fatalf("virtue %d is missing text", v.ID)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].Title = "changed"
	if v, _ := Get(1); v.Title != "Temperance" {
		t.Fatalf("catalog mutated through All(): %q", v.Title)
	}
}

func TestGetOutOfRange(t *testing.T) {
	for _, id := range []int{-1, 0, 14, 100} {
		if _, ok := Get(id); ok {
			t.Fatalf("expected id %d to be rejected", id)
		}
	}
	if v, ok := Get(13); !ok || v.Title != "Humility" {
		t.Fatalf("unexpected virtue 13: %+v", v)
	}
}

func TestLookupByTitle(t *testing.T) {
	v, ok := Lookup("  silence ")
	if !ok || v.ID != 2 {
		t.Fatalf("expected silence to resolve to 2, got %+v", v)
	}
	if _, ok := Lookup("patience"); ok {
		t.Fatalf("expected unknown title to be rejected")
	}
}
