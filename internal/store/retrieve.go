package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harrison/rash/internal/model"
)

// GetFullCommandRecord joins the dedup tables, pipe-status rows, and
// command (plus, if mergeSessionEnviron, session) environment for one
// command_history row, merging environment with command keys overriding
// session keys on conflict (spec.md §4.2, §8 property 4).
func (s *Store) GetFullCommandRecord(ctx context.Context, id int64, mergeSessionEnviron bool) (*model.FullCommandRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			ch.id, cl.command, dl.directory, tl.terminal,
			ch.session_id, sh.session_long_id,
			ch.start_time, ch.stop_time, ch.exit_code,
			sh.start_time, sh.stop_time
		FROM command_history ch
		LEFT JOIN command_list cl ON ch.command_id = cl.id
		LEFT JOIN directory_list dl ON ch.dir_id = dl.id
		LEFT JOIN terminal_list tl ON ch.terminal_id = tl.id
		LEFT JOIN session_history sh ON ch.session_id = sh.id
		WHERE ch.id = ?`, id)

	rec := &model.FullCommandRecord{}
	var (
		command, directory, terminal, sessionLongID sql.NullString
		sessionID                                    sql.NullInt64
		startTime, stopTime                          sql.NullTime
		exitCode                                     sql.NullInt64
		sessionStart, sessionStop                    sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &command, &directory, &terminal,
		&sessionID, &sessionLongID,
		&startTime, &stopTime, &exitCode,
		&sessionStart, &sessionStop,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("command %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query command record: %w", err)
	}

	rec.Command = command.String
	rec.Cwd = directory.String
	rec.Terminal = terminal.String
	rec.SessionLongID = sessionLongID.String
	if sessionID.Valid {
		v := sessionID.Int64
		rec.SessionID = &v
	}
	if startTime.Valid {
		v := startTime.Time
		rec.StartTime = &v
	}
	if stopTime.Valid {
		v := stopTime.Time
		rec.StopTime = &v
	}
	if exitCode.Valid {
		v := int(exitCode.Int64)
		rec.ExitCode = &v
	}
	if sessionStart.Valid {
		v := sessionStart.Time
		rec.SessionStartTime = &v
	}
	if sessionStop.Valid {
		v := sessionStop.Time
		rec.SessionStopTime = &v
	}

	rec.PipeStatus, err = s.pipeStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	environ := map[string]string{}
	if mergeSessionEnviron && sessionID.Valid {
		sessionEnviron, err := s.environFor(ctx, "session_environment_map", "sh_id", sessionID.Int64)
		if err != nil {
			return nil, err
		}
		for k, v := range sessionEnviron {
			environ[k] = v
		}
	}
	commandEnviron, err := s.environFor(ctx, "command_environment_map", "ch_id", id)
	if err != nil {
		return nil, err
	}
	for k, v := range commandEnviron {
		environ[k] = v
	}
	rec.Environ = environ

	return rec, nil
}

func (s *Store) pipeStatus(ctx context.Context, chID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exit_code FROM pipe_status_map WHERE ch_id = ? ORDER BY program_position ASC`, chID)
	if err != nil {
		return nil, fmt.Errorf("query pipe_status_map: %w", err)
	}
	defer rows.Close()

	var statuses []int
	for rows.Next() {
		var code int
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan pipe_status_map: %w", err)
		}
		statuses = append(statuses, code)
	}
	return statuses, rows.Err()
}

func (s *Store) environFor(ctx context.Context, mapTable, mapColumn string, ownerID int64) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT ev.variable_name, ev.variable_value
		FROM environment_variable ev
		JOIN %s m ON ev.id = m.ev_id
		WHERE m.%s = ?`, mapTable, mapColumn)

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", mapTable, err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", mapTable, err)
		}
		out[name] = value
	}
	return out, rows.Err()
}
