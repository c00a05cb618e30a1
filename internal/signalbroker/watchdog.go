// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

// Watch cancels the run on the first signal received on sigCh.
// It returns when a signal arrives, when sigCh is closed, or when ctx is done.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	select {
	case sig, ok := <-sigCh:
		if !ok {
			return
		}

		ctxlog.Logger(ctx).Warn("watchdog", "detail", "received signal, interrupting run", "signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
}
