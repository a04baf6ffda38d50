// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates a new app instance for system testing. It returns the
// app together with its command output and log buffers. Defaults are filled
// in for the fields the CLI would normally set.
func SetupAppTest(t *testing.T, cfg Config) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	cfg.LogLevel = "debug"
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 4
	}
	validated, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}

	outBuffer := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	testApp := NewApp(outBuffer, logBuffer, validated)

	t.Cleanup(func() {
		if os.Getenv("QNEXP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
