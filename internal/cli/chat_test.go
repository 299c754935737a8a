// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplAbortCancelsInFlight(t *testing.T) {
	r := &repl{}

	ctx, cancel := context.WithCancel(context.Background())
	r.setCancel(cancel)

	require.True(t, r.abort())
	assert.Error(t, ctx.Err(), "abort must cancel the in-flight context")

	r.setCancel(nil)
	assert.False(t, r.abort(), "nothing in flight, nothing to cancel")
}

// The signal goroutine aborts while the loop publishes and clears the
// cancel func; the two sides must never race.
func TestReplAbortConcurrentWithRequests(t *testing.T) {
	r := &repl{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				r.abort()
			}
		}()
	}

	for j := 0; j < 200; j++ {
		_, cancel := context.WithCancel(context.Background())
		r.setCancel(cancel)
		r.setCancel(nil)
		cancel()
	}
	wg.Wait()
}
