// Copyright (C) 2025 Authstack Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the monitorctl CLI.
//
// All user-facing deployment transcript lines go through this package so
// the four message categories (info, success, warning, error) render
// consistently. Colors are suppressed automatically when stdout is not a
// terminal, so piping the transcript into a file yields plain text.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette - graphite and signal colors for operational output.
var (
	ColorAccent  = lipgloss.Color("#5FAFFF") // Steel blue - headings, endpoints
	ColorSuccess = lipgloss.Color("#2ECC71") // Green - healthy, completed stages
	ColorWarning = lipgloss.Color("#F4D03F") // Gold - best-effort failures
	ColorError   = lipgloss.Color("#E74C3C") // Red - fatal stages
	ColorMuted   = lipgloss.Color("#6C7A89") // Grey - secondary detail
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Accent  lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Accent:  lipgloss.NewStyle().Foreground(ColorAccent),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1),
}

// Icon provides themed status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
)

// Render returns the icon with appropriate styling.
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	case IconPending:
		return Styles.Muted.Render(string(i))
	default:
		return string(i)
	}
}

// plain disables styling when stdout is not an interactive terminal.
var plain = !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())

// SetPlain forces plain (uncolored) output. Used by --no-color and tests.
func SetPlain(v bool) {
	plain = v
}

// Plain reports whether styling is disabled.
func Plain() bool {
	return plain
}

// Title prints a styled section heading.
func Title(text string) {
	if plain {
		fmt.Printf("== %s ==\n", text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Info prints an informational message.
func Info(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Success prints a success message with a checkmark.
func Success(text string) {
	if plain {
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message. Warnings never stop the pipeline.
func Warning(text string) {
	if plain {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message.
func Error(text string) {
	if plain {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Muted prints secondary detail text.
func Muted(text string) {
	if plain {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints titled content in a rounded box.
func Box(title, content string) {
	if plain {
		fmt.Printf("%s: %s\n", title, content)
		return
	}
	boxStyle := Styles.Box.Width(60)
	titleLine := Styles.Title.Render(title)
	fmt.Println(boxStyle.Render(titleLine + "\n" + content))
}

// ServiceStatus prints one service line of the deployment report.
func ServiceStatus(name string, healthy bool, endpoint, detail string) {
	if plain {
		state := "PASS"
		if !healthy {
			state = "FAIL"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", state, name, endpoint, detail)
		return
	}
	icon := IconSuccess
	if !healthy {
		icon = IconError
	}
	line := fmt.Sprintf("%s %s %s", icon.Render(), Styles.Bold.Render(name), Styles.Accent.Render(endpoint))
	if detail != "" {
		line += " " + Styles.Muted.Render("("+detail+")")
	}
	fmt.Println(line)
}
