package gradescope

import (
	"context"
	"os"
	"time"
)

// Save-confirmation polling bounds. The front end writes the file out of
// band; we only confirm the write landed.
const (
	saveWaitTimeout  = 5 * time.Second
	saveWaitInterval = 200 * time.Millisecond
)

// waitForSave polls path until its modification time advances past the
// baseline and its size is non-zero, for at most timeout. Returns true if a
// save was detected. A false return is non-fatal: conversion proceeds with
// the file's last-saved state.
func waitForSave(ctx context.Context, path string, timeout time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	baseline := info.ModTime()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(saveWaitInterval)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(baseline) && info.Size() > 0 {
			return true
		}
	}
	return false
}
