package catalog

import (
	"encoding/base64"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embeddedSeed []byte

// Loader assembles the startup challenge set: the embedded curated
// document, two programmatic series ported from the original catalog,
// and any extra challenge_set documents found under an optional
// directory.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

// LoadSeed returns the full ordered seed set.
func (l *Loader) LoadSeed(extraDir string) ([]Challenge, error) {
	curated, err := parseSeedFile(embeddedSeed)
	if err != nil {
		return nil, fmt.Errorf("embedded seed: %w", err)
	}

	out := make([]Challenge, 0, len(curated.Challenges)+30)
	out = append(out, baseEncodingSeries()...)
	out = append(out, curated.Challenges...)
	out = append(out, trainingSimulationSeries()...)

	if extraDir != "" {
		extra, err := l.loadDir(extraDir)
		if err != nil {
			return nil, err
		}
		out = append(out, extra...)
	}
	return out, nil
}

func (l *Loader) loadDir(dir string) ([]Challenge, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := filepath.Ext(entry.Name()); ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []Challenge
	for _, name := range names {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		set, err := parseSeedFile(b)
		if err != nil {
			return nil, fmt.Errorf("load challenge set %s: %w", path, err)
		}
		out = append(out, set.Challenges...)
	}
	return out, nil
}

func parseSeedFile(b []byte) (SeedFile, error) {
	var set SeedFile
	if err := yaml.Unmarshal(b, &set); err != nil {
		return set, err
	}
	if err := set.Validate(); err != nil {
		return set, err
	}
	return set, nil
}

// baseEncodingSeries builds the ten introductory crypto challenges. The
// puzzle content is the base64 form of the flag itself.
func baseEncodingSeries() []Challenge {
	out := make([]Challenge, 0, 10)
	for i := 1; i <= 10; i++ {
		flag := fmt.Sprintf("CTF{base_level_%d_clear}", i)
		out = append(out, Challenge{
			ID:          fmt.Sprintf("crypto-basic-%d", i),
			Title:       fmt.Sprintf("Base Encoding Level %d", i),
			Category:    CategoryCryptography,
			Difficulty:  DifficultyBeginner,
			Points:      10 * i,
			Flag:        flag,
			Hint:        "Look at standard encoding schemes like Base64, Hex, or Binary.",
			Description: fmt.Sprintf("Decrypt the following message to proceed to level %d. The encoding gets slightly more obscure.", i+1),
			Content:     base64.StdEncoding.EncodeToString([]byte(flag)),
		})
	}
	return out
}

// trainingSimulationSeries pads the catalog with twenty filler drills,
// alternating logic and crypto, the first half beginner.
func trainingSimulationSeries() []Challenge {
	out := make([]Challenge, 0, 20)
	for i := 0; i < 20; i++ {
		cat := CategoryLogic
		if i%2 == 1 {
			cat = CategoryCryptography
		}
		diff := DifficultyBeginner
		if i >= 10 {
			diff = DifficultyIntermediate
		}
		out = append(out, Challenge{
			ID:          fmt.Sprintf("simulated-extra-%d", i),
			Title:       fmt.Sprintf("Training Simulation #%d", i+1),
			Category:    cat,
			Difficulty:  diff,
			Points:      50 + i,
			Flag:        fmt.Sprintf("CTF{simulation_%d_complete}", i),
			Hint:        "Look for repeating patterns.",
			Description: fmt.Sprintf("Standard training protocol %d. Decode the pattern.", i+400),
			Content:     fmt.Sprintf("RAW_DATA_STREAM_0x%X", i),
		})
	}
	return out
}
