package app

import (
	"context"
	"strings"

	"cipherforge/internal/assistant"
	"cipherforge/internal/telemetry"
)

// AssistantMode selects which backend powers the AI host.
type AssistantMode string

const (
	ModeAuto AssistantMode = "auto"
	ModeMock AssistantMode = "mock"
	ModeOff  AssistantMode = "off"
)

func normalizeAssistantMode(raw string) AssistantMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeMock), "scripted", "demo":
		return ModeMock
	case string(ModeOff), "disabled", "none":
		return ModeOff
	default:
		return ModeAuto
	}
}

// buildBackend resolves the configured mode to a concrete backend. Auto
// mode degrades to the disabled backend instead of failing startup; the
// pipeline's fallback messaging surfaces the missing credential to the
// operator.
func buildBackend(ctx context.Context, cfg Config, logger *telemetry.JSONLogger) assistant.Backend {
	switch normalizeAssistantMode(cfg.AssistantMode) {
	case ModeMock:
		return assistant.NewScripted()
	case ModeOff:
		return assistant.Disabled{}
	default:
		g, err := assistant.NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			logger.Warn("assistant.disabled", map[string]any{"reason": err.Error()})
			return assistant.Disabled{}
		}
		return g
	}
}
