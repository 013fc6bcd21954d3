package main

import (
	"flag"
	"fmt"
	"os"

	"cipherforge/internal/app"
)

func main() {
	cfg, err := app.FromEnv()
	if err != nil {
		fail(err)
	}

	flag.StringVar(&cfg.AssistantMode, "assistant", cfg.AssistantMode, "assistant backend: auto, mock, or off")
	flag.StringVar(&cfg.Personality, "personality", cfg.Personality, "AI host personality")
	flag.StringVar(&cfg.Model, "model", cfg.Model, "generative model id")
	flag.StringVar(&cfg.CatalogDir, "catalog-dir", cfg.CatalogDir, "directory with extra challenge_set yaml files")
	flag.StringVar(&cfg.LogPath, "log", cfg.LogPath, "telemetry log file (empty: discard)")
	flag.BoolVar(&cfg.ASCIIOnly, "ascii", cfg.ASCIIOnly, "ascii-only panel borders")
	flag.BoolVar(&cfg.DebugLayout, "debug-layout", cfg.DebugLayout, "show layout diagnostics in the header")
	flag.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "ui style: neon_grid, phosphor, or midnight")
	flag.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "animation level: full, reduced, or off")
	flag.StringVar(&cfg.UI.MouseScope, "mouse", cfg.UI.MouseScope, "mouse handling: scoped, full, or off")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fail(err)
	}

	a, err := app.New(cfg)
	if err != nil {
		fail(err)
	}
	if err := a.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "cipherforge:", err)
	os.Exit(1)
}
