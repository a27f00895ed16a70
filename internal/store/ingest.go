package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harrison/rash/internal/model"
	"github.com/harrison/rash/internal/pathutil"
)

func unixToTime(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// ImportCommand inserts a CommandRecord, normalizing its cwd and resolving
// dedup-table lookups, inside one transaction (spec.md §4.2). When
// checkDuplicate is set, a matching row under the six-field tuple
// (command, cwd, terminal, start, stop, exit_code) — with NULLs treated as
// equal — short-circuits the insert and its id is returned instead.
func (s *Store) ImportCommand(ctx context.Context, in model.ImportCommandInput, checkDuplicate bool) (int64, error) {
	cwd := ""
	if in.Cwd != "" {
		cwd = pathutil.Normalize(in.Cwd)
	}
	start := unixToTime(in.Start)
	stop := unixToTime(in.Stop)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import_command: %w", err)
	}
	defer tx.Rollback()

	if checkDuplicate {
		id, found, err := findDuplicateCommand(ctx, tx, in.Command, cwd, in.Terminal, start, stop, in.ExitCode)
		if err != nil {
			return 0, err
		}
		if found {
			return id, tx.Commit()
		}
	}

	commandID, err := getOrCreateID(ctx, tx, "command_list", "command", in.Command)
	if err != nil {
		return 0, err
	}

	var dirID, terminalID, sessionID sql.NullInt64
	if cwd != "" {
		id, err := getOrCreateID(ctx, tx, "directory_list", "directory", cwd)
		if err != nil {
			return 0, err
		}
		dirID = sql.NullInt64{Int64: id, Valid: true}
	}
	if in.Terminal != "" {
		id, err := getOrCreateID(ctx, tx, "terminal_list", "terminal", in.Terminal)
		if err != nil {
			return 0, err
		}
		terminalID = sql.NullInt64{Int64: id, Valid: true}
	}
	if in.SessionLongID != "" {
		id, err := findOrCreateSessionID(ctx, tx, in.SessionLongID)
		if err != nil {
			return 0, err
		}
		sessionID = sql.NullInt64{Int64: id, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO command_history (command_id, dir_id, terminal_id, session_id, start_time, stop_time, exit_code)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		commandID, nullNullInt64(dirID), nullNullInt64(terminalID), nullNullInt64(sessionID),
		nullableTime(start), nullableTime(stop), nullableInt(in.ExitCode),
	)
	if err != nil {
		return 0, fmt.Errorf("insert command_history: %w", err)
	}
	chID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get inserted command_history id: %w", err)
	}

	if err := insertCommandEnviron(ctx, tx, chID, in.Environ); err != nil {
		return 0, err
	}
	if err := insertPipeStatus(ctx, tx, chID, in.PipeStatus); err != nil {
		return 0, err
	}

	return chID, tx.Commit()
}

func nullNullInt64(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func findDuplicateCommand(ctx context.Context, tx *sql.Tx, command, cwd, terminal string, start, stop *time.Time, exitCode *int) (int64, bool, error) {
	query := `
		SELECT ch.id FROM command_history ch
		LEFT JOIN command_list cl ON ch.command_id = cl.id
		LEFT JOIN directory_list dl ON ch.dir_id = dl.id
		LEFT JOIN terminal_list tl ON ch.terminal_id = tl.id
		WHERE (cl.command = ? OR (cl.command IS NULL AND ? IS NULL))
		  AND (dl.directory = ? OR (dl.directory IS NULL AND ? IS NULL))
		  AND (tl.terminal = ? OR (tl.terminal IS NULL AND ? IS NULL))
		  AND (ch.start_time = ? OR (ch.start_time IS NULL AND ? IS NULL))
		  AND (ch.stop_time = ? OR (ch.stop_time IS NULL AND ? IS NULL))
		  AND (ch.exit_code = ? OR (ch.exit_code IS NULL AND ? IS NULL))
		LIMIT 1`
	cwdArg := nullableString(cwd)
	terminalArg := nullableString(terminal)
	startArg := nullableTime(start)
	stopArg := nullableTime(stop)
	exitArg := nullableInt(exitCode)

	var id int64
	err := tx.QueryRowContext(ctx, query,
		command, command,
		cwdArg, cwdArg,
		terminalArg, terminalArg,
		startArg, startArg,
		stopArg, stopArg,
		exitArg, exitArg,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("check duplicate command: %w", err)
}

func insertCommandEnviron(ctx context.Context, tx *sql.Tx, chID int64, environ map[string]string) error {
	for name, value := range environ {
		if name == "" || value == "" {
			continue
		}
		evID, err := getOrCreateEnvironID(ctx, tx, name, value)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO command_environment_map (ch_id, ev_id) VALUES (?, ?)`,
			chID, evID,
		); err != nil {
			return fmt.Errorf("insert command_environment_map: %w", err)
		}
	}
	return nil
}

func insertPipeStatus(ctx context.Context, tx *sql.Tx, chID int64, pipeStatus []int) error {
	for position, code := range pipeStatus {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pipe_status_map (ch_id, program_position, exit_code) VALUES (?, ?, ?)`,
			chID, position, code,
		); err != nil {
			return fmt.Errorf("insert pipe_status_map: %w", err)
		}
	}
	return nil
}

func getOrCreateEnvironID(ctx context.Context, tx *sql.Tx, name, value string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM environment_variable WHERE variable_name = ? AND variable_value = ?`,
		name, value,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup environment_variable: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO environment_variable (variable_name, variable_value) VALUES (?, ?)`,
		name, value,
	)
	if err != nil {
		return 0, fmt.Errorf("insert environment_variable: %w", err)
	}
	return result.LastInsertId()
}

func findOrCreateSessionID(ctx context.Context, tx *sql.Tx, longID string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM session_history WHERE session_long_id = ?`, longID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("lookup session_history: %w", err)
	}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO session_history (session_long_id) VALUES (?)`, longID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert session_history: %w", err)
	}
	return result.LastInsertId()
}

// ImportInit finds the SessionRecord by session_long_id (creating it if
// absent), sets start_time when null or overwrite is set, and records the
// session's environment: with overwrite the previous environment is
// replaced, otherwise the new variables are added to it. Symmetric with
// ImportExit (spec.md §4.2).
func (s *Store) ImportInit(ctx context.Context, in model.ImportInitInput, overwrite bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import_init: %w", err)
	}
	defer tx.Rollback()

	sessionID, err := findOrCreateSessionID(ctx, tx, in.SessionLongID)
	if err != nil {
		return err
	}

	start := unixToTime(in.Start)
	if start != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE session_history SET start_time = ? WHERE id = ? AND (start_time IS NULL OR ?)`,
			*start, sessionID, overwrite,
		); err != nil {
			return fmt.Errorf("update session start_time: %w", err)
		}
	}

	if overwrite {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM session_environment_map WHERE sh_id = ?`, sessionID,
		); err != nil {
			return fmt.Errorf("clear session environment: %w", err)
		}
	}
	for name, value := range in.Environ {
		if name == "" || value == "" {
			continue
		}
		evID, err := getOrCreateEnvironID(ctx, tx, name, value)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO session_environment_map (sh_id, ev_id) VALUES (?, ?)`,
			sessionID, evID,
		); err != nil {
			return fmt.Errorf("insert session_environment_map: %w", err)
		}
	}

	return tx.Commit()
}

// ImportExit finds the SessionRecord by session_long_id (creating it if
// absent) and sets stop_time when null or overwrite is set. Does not touch
// environment (spec.md §4.2).
func (s *Store) ImportExit(ctx context.Context, in model.ImportExitInput, overwrite bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import_exit: %w", err)
	}
	defer tx.Rollback()

	sessionID, err := findOrCreateSessionID(ctx, tx, in.SessionLongID)
	if err != nil {
		return err
	}

	stop := unixToTime(in.Stop)
	if stop != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE session_history SET stop_time = ? WHERE id = ? AND (stop_time IS NULL OR ?)`,
			*stop, sessionID, overwrite,
		); err != nil {
			return fmt.Errorf("update session stop_time: %w", err)
		}
	}

	return tx.Commit()
}
