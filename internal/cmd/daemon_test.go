package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/harrison/rash/internal/daemonize"
)

func TestDaemonCommandRejectsUnknownLogLevel(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewDaemonCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--log-level", "not-a-level"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unknown --log-level")
	}
}

func TestDaemonCommandRunsUntilCanceled(t *testing.T) {
	paths := newTestPaths(t)

	cmd := NewDaemonCommand(paths)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--use-polling"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok, _ := daemonize.ReadPID(paths.DaemonPID()); ok {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok, _ := daemonize.ReadPID(paths.DaemonPID()); !ok {
		t.Fatal("expected pid file to appear while daemon runs")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("daemon command returned error: %v", err)
	}
}
