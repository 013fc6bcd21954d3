package ui

// DetermineLayoutMode decides whether the chat pane renders beside the
// challenge briefing (wide) or below it (medium).
func DetermineLayoutMode(cols, rows int) LayoutMode {
	if cols < 80 || rows < 24 {
		return LayoutTooSmall
	}
	if cols >= 120 && rows >= 30 {
		return LayoutWide
	}
	return LayoutMedium
}
