package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSaved     = lipgloss.Color("220") // Gold
	colorCommunity = lipgloss.Color("208") // Orange
)

// Brand is the app name in the header.
var Brand = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// HeaderStat is a counter in the header.
var HeaderStat = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Tab is an inactive filter tab.
var Tab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// ActiveTab is the selected filter tab.
var ActiveTab = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// SelectedItem style for the focused card, highlight or toggle row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary)

// CardTitle style for unfocused card titles.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// SourceBadge style for newsletter source tags.
var SourceBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// CommunityBadge style for community source tags.
var CommunityBadge = SourceBadge.
	Foreground(colorCommunity)

// BodyText style for card summaries.
var BodyText = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// MetaItem style for times and links.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorMuted)

// HighlightItem style for sub-story rows.
var HighlightItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("250"))

// MoreToggle style for the "+ N more" / "show fewer" row.
var MoreToggle = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Italic(true)

// SavedGlyph style for the filled bookmark marker.
var SavedGlyph = lipgloss.NewStyle().
	Foreground(colorSaved)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// HelpStyle for the empty and loading views.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
