// Copyright © 2025 Deckreview contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ui/theme.go
// Summary: Semantic styles for the terminal UI (Catppuccin Mocha palette).

package ui

import "github.com/gdamore/tcell/v2"

// Palette colours.
var (
	ColorBase     = tcell.NewHexColor(0x1e1e2e)
	ColorSurface  = tcell.NewHexColor(0x313244)
	ColorOverlay  = tcell.NewHexColor(0x6c7086)
	ColorText     = tcell.NewHexColor(0xcdd6f4)
	ColorSubtext  = tcell.NewHexColor(0xa6adc8)
	ColorBlue     = tcell.NewHexColor(0x89b4fa)
	ColorGreen    = tcell.NewHexColor(0xa6e3a1)
	ColorYellow   = tcell.NewHexColor(0xf9e2af)
	ColorRed      = tcell.NewHexColor(0xf38ba8)
	ColorMauve    = tcell.NewHexColor(0xcba6f7)
	ColorLavender = tcell.NewHexColor(0xb4befe)
)

// Theme groups the styles widgets and screens draw with.
type Theme struct {
	Base        tcell.Style
	Muted       tcell.Style
	Title       tcell.Style
	Label       tcell.Style
	Border      tcell.Style
	Focus       tcell.Style
	Selected    tcell.Style
	Input       tcell.Style
	InputFocus  tcell.Style
	Placeholder tcell.Style
	Caret       tcell.Style
	Error       tcell.Style
	Success     tcell.Style
	Warning     tcell.Style
	Accent      tcell.Style
}

// DefaultTheme is the dark theme used unless a caller swaps it.
func DefaultTheme() Theme {
	base := tcell.StyleDefault.Background(ColorBase).Foreground(ColorText)
	return Theme{
		Base:        base,
		Muted:       base.Foreground(ColorOverlay),
		Title:       base.Foreground(ColorLavender).Bold(true),
		Label:       base.Foreground(ColorSubtext).Bold(true),
		Border:      base.Foreground(ColorOverlay),
		Focus:       base.Foreground(ColorBlue).Bold(true),
		Selected:    base.Background(ColorSurface).Foreground(ColorText).Bold(true),
		Input:       base.Background(ColorSurface),
		InputFocus:  base.Background(ColorSurface).Foreground(ColorBlue),
		Placeholder: base.Background(ColorSurface).Foreground(ColorOverlay).Italic(true),
		Caret:       base.Reverse(true),
		Error:       base.Foreground(ColorRed),
		Success:     base.Foreground(ColorGreen),
		Warning:     base.Foreground(ColorYellow),
		Accent:      base.Foreground(ColorMauve),
	}
}
