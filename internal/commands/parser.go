// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for skiff.
package commands

import (
	"strings"
	"unicode"
)

// Prefix is the character that marks an input line as a command.
const Prefix = "/"

// =============================================================================
// CLASSIFIER
// =============================================================================

// IsCommand reports whether the trimmed input is non-empty and starts
// with the command prefix.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), Prefix)
}

// =============================================================================
// PARSER
// =============================================================================

// Parse splits a raw input line into a command identifier and its
// arguments. The leading prefix character is stripped and the remainder
// is tokenized: runs of whitespace delimit tokens, and single or double
// quotes group an argument containing spaces. The identifier keeps the
// exact case the user typed.
//
// An input of just the prefix yields an empty identifier and no
// arguments.
func Parse(input string) (identifier string, args []string) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, Prefix)

	tokens := splitCommandLine(input)
	if len(tokens) == 0 {
		return "", nil
	}
	return tokens[0], tokens[1:]
}

// SplitArgs tokenizes a raw argument string the same way Parse does,
// for handlers that re-split joined input.
func SplitArgs(input string) []string {
	return splitCommandLine(input)
}

// =============================================================================
// TOKENIZER
// =============================================================================

// splitCommandLine splits a command line into tokens, respecting quotes.
// Supports both single and double quotes for arguments with spaces.
// Iterates runes, not bytes, so multibyte input survives intact.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote bool

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		char := runes[i]

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote

		case char == '\\' && i+1 < len(runes) && (inDoubleQuote || inSingleQuote):
			// Escape sequence inside quotes
			next := runes[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteRune(next)
				i++
			} else {
				current.WriteRune(char)
			}

		case unicode.IsSpace(char) && !inSingleQuote && !inDoubleQuote:
			// Space outside quotes - end current token
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
