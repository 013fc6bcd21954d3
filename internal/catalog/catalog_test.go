package catalog

import "testing"

func seedPair() []Challenge {
	a := validChallenge()
	b := validChallenge()
	b.ID = "logic-99"
	b.Category = CategoryLogic
	return []Challenge{a, b}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	dup := validChallenge()
	if _, err := New([]Challenge{validChallenge(), dup}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestPrependPutsSynthesizedFirst(t *testing.T) {
	c, err := New(seedPair())
	if err != nil {
		t.Fatal(err)
	}
	gen := validChallenge()
	gen.ID = GeneratedIDPrefix + "1"
	gen.Synthesized = true
	if err := c.Prepend(gen); err != nil {
		t.Fatalf("prepend: %v", err)
	}

	all := c.Challenges()
	if all[0].ID != gen.ID {
		t.Fatalf("expected synthesized challenge first, got %q", all[0].ID)
	}
	if c.Size() != 3 {
		t.Fatalf("expected size 3, got %d", c.Size())
	}
	// Lookups must survive the index shift.
	for _, id := range []string{gen.ID, "web-99", "logic-99"} {
		got, ok := c.Get(id)
		if !ok || got.ID != id {
			t.Fatalf("lookup broken for %q", id)
		}
	}
}

func TestPrependRejectsCollision(t *testing.T) {
	c, err := New(seedPair())
	if err != nil {
		t.Fatal(err)
	}
	gen := validChallenge()
	gen.ID = GeneratedIDPrefix + "7"
	gen.Synthesized = true
	if err := c.Prepend(gen); err != nil {
		t.Fatal(err)
	}
	if err := c.Prepend(gen); err == nil {
		t.Fatalf("expected collision error")
	}
	if c.Size() != 3 {
		t.Fatalf("failed prepend must not grow catalog, size=%d", c.Size())
	}
}

func TestByCategoryPreservesOrder(t *testing.T) {
	c, err := New(seedPair())
	if err != nil {
		t.Fatal(err)
	}
	web := c.ByCategory(CategoryWeb)
	if len(web) != 1 || web[0].ID != "web-99" {
		t.Fatalf("unexpected filter result %#v", web)
	}
	if len(c.ByCategory(CategoryOSINT)) != 0 {
		t.Fatalf("expected empty OSINT slice")
	}
}
