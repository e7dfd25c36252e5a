package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, UI functions produce plain text without colors or decorations.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

var (
	Gold     = lipgloss.Color("#F4D03F")
	Copper   = lipgloss.Color("#DC7633")
	Purple   = lipgloss.Color("#9B59B6")
	Blue     = lipgloss.Color("#5DADE2")
	Cyan     = lipgloss.Color("#76D7C4")
	Green    = lipgloss.Color("#58D68D")
	Emerald  = lipgloss.Color("#27AE60")
	Pink     = lipgloss.Color("#FF6B9D")
	White    = lipgloss.Color("#FDFEFE")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	Success = lipgloss.NewStyle().
		Foreground(Green)

	Error = lipgloss.NewStyle().
		Foreground(Pink).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Copper)

	Info = lipgloss.NewStyle().
		Foreground(Blue)

	Muted = lipgloss.NewStyle().
		Foreground(Gray)

	Highlight = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)
)

var baseBadge = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

// SnippetBadge returns the snippet kind badge
func SnippetBadge() string {
	if !IsTTY {
		return "[SNIP]"
	}
	return baseBadge.Background(Purple).Foreground(White).Render("✦ SNIP")
}

// AgentBadge returns the agent kind badge
func AgentBadge() string {
	if !IsTTY {
		return "[AGENT]"
	}
	return baseBadge.Background(Emerald).Foreground(White).Render("◈ AGENT")
}

// CmdBadge returns the command kind badge
func CmdBadge() string {
	if !IsTTY {
		return "[CMD]"
	}
	return baseBadge.Background(Blue).Foreground(White).Render("⌘ CMD")
}

// MCPBadge returns the mcp-server kind badge
func MCPBadge() string {
	if !IsTTY {
		return "[MCP]"
	}
	return baseBadge.Background(Copper).Foreground(White).Render("⬡ MCP")
}

// StatusLine creates a status line with icon and message
func StatusLine(icon, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", icon, message)
	}
	iconStyled := lipgloss.NewStyle().Foreground(color).Render(icon)
	msgStyled := lipgloss.NewStyle().Foreground(color).Render(message)
	return fmt.Sprintf("  %s %s", iconStyled, msgStyled)
}

// SuccessLine creates a success status line
func SuccessLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  OK: %s", message)
	}
	return StatusLine("✓", message, Green)
}

// ErrorLine creates an error status line
func ErrorLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  ERROR: %s", message)
	}
	return StatusLine("✗", message, Pink)
}

// WarningLine creates a warning status line
func WarningLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  WARN: %s", message)
	}
	return StatusLine("!", message, Copper)
}

// InfoLine creates an info status line
func InfoLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  %s", message)
	}
	return StatusLine("→", message, Blue)
}
