// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the skiff TUI.

All colors use Lip Gloss AdaptiveColor so one palette serves light and
dark terminals. The palette lives in colors.go; theme.go assembles it
into the component styles the chat view renders with.

# Color System (colors.go)

Accent colors:

  - Purple - assistant messages and selections
  - Cyan - brand color, prompts, user highlights
  - Emerald - success states and command output
  - Amber - warnings and missing-agent notices
  - Rose - errors and failed command results

Message bubbles and text use semantic tokens (UserBubbleFg,
TextSecondary, ...) rather than raw colors.

# Theme System (theme.go)

Theme is built once at startup from the configured preference:

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light", "auto"
	header := theme.Header.Render("skiff")

"auto" asks the terminal for its background; an explicit preference
overrides detection for terminals that misreport it.
*/
package styles
