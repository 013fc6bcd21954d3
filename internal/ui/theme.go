package ui

import "charm.land/lipgloss/v2"

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelBody    lipgloss.Style
	Accent       lipgloss.Style
	Solved       lipgloss.Style
	Fail         lipgloss.Style
	Pending      lipgloss.Style
	Muted        lipgloss.Style
	Operator     lipgloss.Style
	Assistant    lipgloss.Style
	System       lipgloss.Style
	Synthesized  lipgloss.Style
	RankBadge    lipgloss.Style
	OverlayTitle lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("neon_grid")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "phosphor":
		return phosphorTheme()
	case "midnight":
		return midnightTheme()
	default:
		return neonGridTheme()
	}
}

func neonGridTheme() Theme {
	cyan := lipgloss.Color("#5EEBFF")
	magenta := lipgloss.Color("#FF6F91")
	mint := lipgloss.Color("#67F0A8")
	amber := lipgloss.Color("#FFC857")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Header:       lipgloss.NewStyle().Background(ink).Foreground(cyan).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(slate).Foreground(powder).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(cyan).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(border),
		PanelBody:    lipgloss.NewStyle().Foreground(powder),
		Accent:       lipgloss.NewStyle().Foreground(cyan).Bold(true),
		Solved:       lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(magenta).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(amber),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),
		Operator:     lipgloss.NewStyle().Foreground(powder),
		Assistant:    lipgloss.NewStyle().Foreground(cyan),
		System:       lipgloss.NewStyle().Foreground(amber),
		Synthesized:  lipgloss.NewStyle().Foreground(magenta),
		RankBadge:    lipgloss.NewStyle().Foreground(ink).Background(cyan).Padding(0, 1).Bold(true),
		OverlayTitle: lipgloss.NewStyle().Foreground(cyan).Bold(true),
	}
}

func phosphorTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:       lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(forest),
		PanelBody:    lipgloss.NewStyle().Foreground(glow),
		Accent:       lipgloss.NewStyle().Foreground(lime).Bold(true),
		Solved:       lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(amber),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Operator:     lipgloss.NewStyle().Foreground(glow),
		Assistant:    lipgloss.NewStyle().Foreground(lime),
		System:       lipgloss.NewStyle().Foreground(amber),
		Synthesized:  lipgloss.NewStyle().Foreground(amber),
		RankBadge:    lipgloss.NewStyle().Foreground(deep).Background(lime).Padding(0, 1).Bold(true),
		OverlayTitle: lipgloss.NewStyle().Foreground(amber).Bold(true),
	}
}

func midnightTheme() Theme {
	sky := lipgloss.Color("#86B6F6")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	honey := lipgloss.Color("#F2B872")
	night := lipgloss.Color("#1E2430")
	slate := lipgloss.Color("#30394A")
	paper := lipgloss.Color("#F4F6FA")

	return Theme{
		Header:       lipgloss.NewStyle().Background(night).Foreground(paper).Padding(0, 1),
		Status:       lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		PanelTitle:   lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder:  lipgloss.NewStyle().Foreground(slate),
		PanelBody:    lipgloss.NewStyle().Foreground(paper),
		Accent:       lipgloss.NewStyle().Foreground(sky).Bold(true),
		Solved:       lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending:      lipgloss.NewStyle().Foreground(honey),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Operator:     lipgloss.NewStyle().Foreground(paper),
		Assistant:    lipgloss.NewStyle().Foreground(sky),
		System:       lipgloss.NewStyle().Foreground(honey),
		Synthesized:  lipgloss.NewStyle().Foreground(rose),
		RankBadge:    lipgloss.NewStyle().Foreground(night).Background(sky).Padding(0, 1).Bold(true),
		OverlayTitle: lipgloss.NewStyle().Foreground(honey).Bold(true),
	}
}
