package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	SeedKind               = "challenge_set"
	SupportedSchemaVersion = 1

	// GeneratedIDPrefix is the id namespace reserved for synthesized
	// challenges. Seed ids must never use it.
	GeneratedIDPrefix = "generated-"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{2,63}$`)

// Category classifies a challenge by the skill it exercises.
type Category string

const (
	CategoryCryptography Category = "CRYPTOGRAPHY"
	CategoryWeb          Category = "WEB_EXPLOITATION"
	CategoryForensics    Category = "FORENSICS"
	CategoryReverse      Category = "REVERSE_ENGINEERING"
	CategoryOSINT        Category = "OSINT"
	CategoryLogic        Category = "LOGIC"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryCryptography,
		CategoryWeb,
		CategoryForensics,
		CategoryReverse,
		CategoryOSINT,
		CategoryLogic,
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryCryptography, CategoryWeb, CategoryForensics, CategoryReverse, CategoryOSINT, CategoryLogic:
		return c, nil
	}
	return "", fmt.Errorf("invalid category %q", s)
}

// Label returns the human-readable form shown on cards and filters.
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Difficulty orders challenges by ascending challenge.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	DifficultyExpert       Difficulty = "EXPERT"
	DifficultyInsane       Difficulty = "INSANE"
)

// Difficulties lists every difficulty in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{
		DifficultyBeginner,
		DifficultyIntermediate,
		DifficultyAdvanced,
		DifficultyExpert,
		DifficultyInsane,
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert, DifficultyInsane:
		return d, nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

// Tier returns the 1-based position in the ascending difficulty order.
// Unknown difficulties sort first.
func (d Difficulty) Tier() int {
	for i, known := range Difficulties() {
		if d == known {
			return i + 1
		}
	}
	return 0
}

// Challenge is one training puzzle. All fields are immutable after
// creation; Flag is the secret answer and is never rendered through
// normal UI paths.
type Challenge struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Category    Category   `yaml:"category"`
	Difficulty  Difficulty `yaml:"difficulty"`
	Points      int        `yaml:"points"`
	Flag        string     `yaml:"flag"`
	Hint        string     `yaml:"hint"`
	Content     string     `yaml:"content,omitempty"`
	Synthesized bool       `yaml:"-"`
}

func (c Challenge) Validate() error {
	if c.Synthesized {
		if !strings.HasPrefix(c.ID, GeneratedIDPrefix) {
			return fmt.Errorf("synthesized challenge id %q must use the %q namespace", c.ID, GeneratedIDPrefix)
		}
	} else {
		if !idPattern.MatchString(c.ID) {
			return fmt.Errorf("invalid challenge id %q", c.ID)
		}
		if strings.HasPrefix(c.ID, GeneratedIDPrefix) {
			return fmt.Errorf("seed challenge id %q uses the reserved %q namespace", c.ID, GeneratedIDPrefix)
		}
	}
	if c.Title == "" {
		return fmt.Errorf("challenge %s: title is required", c.ID)
	}
	if c.Description == "" {
		return fmt.Errorf("challenge %s: description is required", c.ID)
	}
	if _, err := ParseCategory(string(c.Category)); err != nil {
		return fmt.Errorf("challenge %s: %w", c.ID, err)
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return fmt.Errorf("challenge %s: %w", c.ID, err)
	}
	if c.Points <= 0 {
		return fmt.Errorf("challenge %s: points must be > 0", c.ID)
	}
	if c.Flag == "" {
		return fmt.Errorf("challenge %s: flag is required", c.ID)
	}
	return nil
}

// SeedFile is the on-disk shape of a curated challenge document.
type SeedFile struct {
	Kind          string      `yaml:"kind"`
	SchemaVersion int         `yaml:"schema_version"`
	Name          string      `yaml:"name"`
	Challenges    []Challenge `yaml:"challenges"`
}

func (s SeedFile) Validate() error {
	if s.Kind != SeedKind {
		return fmt.Errorf("kind must be %q", SeedKind)
	}
	if s.SchemaVersion == 0 {
		return fmt.Errorf("schema_version is required")
	}
	if s.SchemaVersion > SupportedSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d (max supported %d)", s.SchemaVersion, SupportedSchemaVersion)
	}
	if len(s.Challenges) == 0 {
		return fmt.Errorf("challenges must contain at least one entry")
	}
	seen := map[string]struct{}{}
	for _, c := range s.Challenges {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, ok := seen[c.ID]; ok {
			return fmt.Errorf("duplicate challenge id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}
