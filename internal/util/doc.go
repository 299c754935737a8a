// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared utilities for skiff: atomic file
// writes, rune- and width-aware string helpers, and the session log
// file.
package util
