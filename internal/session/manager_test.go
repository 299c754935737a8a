// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m := NewManager(Config{})
	assert.NotEmpty(t, m.ID())
	assert.False(t, m.IsDirty())
	assert.WithinDuration(t, time.Now(), m.StartTime(), time.Second)
}

func TestManager_UniqueIDs(t *testing.T) {
	a := NewManager(Config{})
	b := NewManager(Config{})
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestManager_DirtyTracking(t *testing.T) {
	m := NewManager(Config{})

	m.MarkDirty()
	assert.True(t, m.IsDirty())

	m.MarkClean()
	assert.False(t, m.IsDirty())
}

func TestManager_RecordActivity(t *testing.T) {
	m := NewManager(Config{})
	time.Sleep(10 * time.Millisecond)
	require.Greater(t, m.IdleFor(), time.Duration(0))

	m.RecordActivity()
	assert.Less(t, m.IdleFor(), 10*time.Millisecond)
}

func TestManager_Check_Disabled(t *testing.T) {
	m := NewManager(Config{}) // zero timeout
	assert.False(t, m.Check())
}

func TestManager_Check_TimeoutFires(t *testing.T) {
	fired := false
	m := NewManager(Config{
		Timeout:   5 * time.Millisecond,
		OnTimeout: func() { fired = true },
	})

	time.Sleep(10 * time.Millisecond)
	assert.True(t, m.Check())
	assert.True(t, fired)
}

func TestManager_Check_WarningFiresOnce(t *testing.T) {
	warnings := 0
	m := NewManager(Config{
		Timeout:       time.Hour,
		WarningBefore: time.Hour, // warning window open immediately
		OnWarning:     func(time.Duration) { warnings++ },
	})

	assert.False(t, m.Check())
	assert.False(t, m.Check())
	assert.Equal(t, 1, warnings, "warning should fire once per idle period")

	// Activity resets the warning
	m.RecordActivity()
	m.Check()
	assert.Equal(t, 2, warnings)
}

func TestManager_SetCallbacks(t *testing.T) {
	m := NewManager(Config{
		Timeout:       5 * time.Millisecond,
		WarningBefore: time.Millisecond,
	})

	// Hosts install handlers after construction, before polling Check.
	var fired bool
	var warned int
	m.SetCallbacks(
		func(time.Duration) { warned++ },
		func() { fired = true },
	)

	time.Sleep(10 * time.Millisecond)
	require.True(t, m.Check())
	assert.True(t, fired)
	assert.Zero(t, warned, "past the timeout, only the timeout handler fires")
}
