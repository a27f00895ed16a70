// Package model defines the relational entities recorded and searched by
// rash: commands, sessions, their associated environment variables and
// pipe statuses, and the append-only schema version record.
package model

import "time"

// CommandRecord is one imported shell command (command_history).
//
// SessionID is nil when the command was captured outside of any tracked
// session. Environ holds the command-level environment only; merging with
// the owning session's environment happens at read time in the store.
type CommandRecord struct {
	ID            int64
	Command       string
	Cwd           string
	Terminal      string
	SessionID     *int64
	SessionLongID string
	StartTime     *time.Time
	StopTime      *time.Time
	ExitCode      *int
	PipeStatus    []int
	Environ       map[string]string
}

// Validate checks the required fields of a CommandRecord before ingest.
func (c *CommandRecord) Validate() error {
	if c.Command == "" {
		return ErrMissingCommand
	}
	return nil
}

// SessionRecord is one shell session (session_history).
type SessionRecord struct {
	ID            int64
	SessionLongID string
	StartTime     *time.Time
	StopTime      *time.Time
	Environ       map[string]string
}

// Validate checks the required fields of a SessionRecord.
func (s *SessionRecord) Validate() error {
	if s.SessionLongID == "" {
		return ErrMissingSessionID
	}
	return nil
}

// PipeStatusEntry is the exit code of one stage of a command's pipeline.
type PipeStatusEntry struct {
	ChID            int64
	ProgramPosition int
	ExitCode        int
}

// EnvironmentVariable is a deduplicated (name, value) pair.
type EnvironmentVariable struct {
	ID    int64
	Name  string
	Value string
}

// VersionRecord is one append-only row of rash_info.
type VersionRecord struct {
	ID            int64
	RashVersion   string
	SchemaVersion string
	Updated       time.Time
}

// ImportCommandInput is the normalized form of a JSON `command` record,
// as produced by the `record` sub-command and read back by the indexer.
type ImportCommandInput struct {
	Command       string
	Cwd           string
	Terminal      string
	SessionLongID string
	Start         *int64
	Stop          *int64
	ExitCode      *int
	PipeStatus    []int
	Environ       map[string]string
}

// ImportInitInput is the normalized form of a JSON `init` record.
type ImportInitInput struct {
	SessionLongID string
	Start         *int64
	Environ       map[string]string
}

// ImportExitInput is the normalized form of a JSON `exit` record.
type ImportExitInput struct {
	SessionLongID string
	Stop          *int64
}

// FullCommandRecord is the fully joined, environment-merged view of a
// single command returned by Store.GetFullCommandRecord.
type FullCommandRecord struct {
	CommandRecord
	SessionStartTime *time.Time
	SessionStopTime  *time.Time
}
