package catalog

import (
	"strings"
	"testing"
)

func validChallenge() Challenge {
	return Challenge{
		ID:          "web-99",
		Title:       "x",
		Description: "desc",
		Category:    CategoryWeb,
		Difficulty:  DifficultyBeginner,
		Points:      50,
		Flag:        "CTF{x}",
		Hint:        "h",
	}
}

func TestChallengeValidateRejectsReservedSeedPrefix(t *testing.T) {
	c := validChallenge()
	c.ID = "generated-123"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected reserved namespace error")
	}
}

func TestChallengeValidateRequiresGeneratedPrefixWhenSynthesized(t *testing.T) {
	c := validChallenge()
	c.Synthesized = true
	if err := c.Validate(); err == nil {
		t.Fatalf("expected namespace error for synthesized challenge outside generated-")
	}
	c.ID = GeneratedIDPrefix + "17354"
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChallengeValidateRejectsNonPositivePoints(t *testing.T) {
	c := validChallenge()
	c.Points = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected points error")
	}
}

func TestParseCategoryNormalizes(t *testing.T) {
	got, err := ParseCategory(" web_exploitation ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != CategoryWeb {
		t.Fatalf("unexpected category %q", got)
	}
	if _, err := ParseCategory("KNITTING"); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestDifficultyTierAscends(t *testing.T) {
	prev := 0
	for _, d := range Difficulties() {
		if d.Tier() <= prev {
			t.Fatalf("tier not ascending at %q", d)
		}
		prev = d.Tier()
	}
	if Difficulty("IMPOSSIBLE").Tier() != 0 {
		t.Fatalf("unknown difficulty should have tier 0")
	}
}

func TestSeedFileValidateRejectsDuplicates(t *testing.T) {
	set := SeedFile{
		Kind:          SeedKind,
		SchemaVersion: 1,
		Challenges:    []Challenge{validChallenge(), validChallenge()},
	}
	err := set.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestSeedFileValidateRejectsUnsupportedSchemaVersion(t *testing.T) {
	set := SeedFile{
		Kind:          SeedKind,
		SchemaVersion: SupportedSchemaVersion + 1,
		Challenges:    []Challenge{validChallenge()},
	}
	if err := set.Validate(); err == nil {
		t.Fatalf("expected unsupported schema version error")
	}
}

func TestCategoryLabelReplacesUnderscores(t *testing.T) {
	if CategoryReverse.Label() != "REVERSE ENGINEERING" {
		t.Fatalf("unexpected label %q", CategoryReverse.Label())
	}
}
