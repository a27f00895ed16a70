package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/rash/internal/rashhome"
	"github.com/harrison/rash/internal/record"
)

// NewRecordCommand implements `rash record` (spec.md §6): writes one JSON
// record file under the appropriate record-drop subtree, and for
// record-type init, can additionally compute and print a new session_id.
func NewRecordCommand(paths *rashhome.Paths) *cobra.Command {
	var (
		recordType       string
		command          string
		cwd              string
		terminal         string
		sessionID        string
		start            int64
		stop             int64
		exitCode         int
		hasExitCode      bool
		pipeStatus       []int
		environPairs     []string
		printSessionID   bool
		sessionIDHost    string
		sessionIDTTY     string
		sessionIDPPID    int
		sessionIDStartTS int64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Write one shell history JSON record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSessionID {
				if recordType != "init" {
					return fmt.Errorf("record: --print-session-id is only valid with --record-type init")
				}
				ts := sessionIDStartTS
				if ts == 0 {
					ts = time.Now().Unix()
				}
				id := record.SessionID(sessionIDHost, sessionIDTTY, sessionIDPPID, ts)
				fmt.Fprintln(cmd.OutOrStdout(), id)
				if sessionID == "" {
					sessionID = id
				}
			}

			environ, err := parseEnvironPairs(environPairs)
			if err != nil {
				return err
			}

			var v any
			switch recordType {
			case "command":
				rec := record.CommandJSON{
					Command:    command,
					Cwd:        cwd,
					Terminal:   terminal,
					SessionID:  sessionID,
					PipeStatus: pipeStatus,
					Environ:    environ,
				}
				if start != 0 {
					rec.Start = &start
				}
				if stop != 0 {
					rec.Stop = &stop
				}
				if hasExitCode {
					rec.ExitCode = &exitCode
				}
				v = rec
			case "init":
				if sessionID == "" {
					return fmt.Errorf("record: --session-id is required for --record-type init")
				}
				rec := record.InitJSON{SessionID: sessionID, Environ: environ}
				if start != 0 {
					rec.Start = &start
				}
				v = rec
			case "exit":
				if sessionID == "" {
					return fmt.Errorf("record: --session-id is required for --record-type exit")
				}
				rec := record.ExitJSON{SessionID: sessionID}
				if stop != 0 {
					rec.Stop = &stop
				}
				v = rec
			default:
				return fmt.Errorf("record: unknown --record-type %q (want command, init, or exit)", recordType)
			}

			path, err := record.Write(paths.RecordDir(), record.Kind(recordType), time.Now().UnixNano(), v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&recordType, "record-type", "", "command, init, or exit")
	cmd.Flags().StringVar(&command, "command", "", "the command line that was run")
	cmd.Flags().StringVar(&cwd, "cwd", "", "working directory the command ran in")
	cmd.Flags().StringVar(&terminal, "terminal", "", "controlling terminal device")
	cmd.Flags().StringVar(&sessionID, "session-id", "", "stable session long id")
	cmd.Flags().Int64Var(&start, "start", 0, "POSIX start timestamp")
	cmd.Flags().Int64Var(&stop, "stop", 0, "POSIX stop timestamp")
	cmd.Flags().IntVar(&exitCode, "exit-code", 0, "command exit status")
	cmd.Flags().IntSliceVar(&pipeStatus, "pipestatus", nil, "exit status of each pipeline stage")
	cmd.Flags().StringArrayVar(&environPairs, "env", nil, "environment variable as NAME=VALUE, may repeat")
	cmd.Flags().BoolVar(&printSessionID, "print-session-id", false, "compute and print a new session id")
	cmd.Flags().StringVar(&sessionIDHost, "session-id-host", "", "host component for --print-session-id")
	cmd.Flags().StringVar(&sessionIDTTY, "session-id-tty", "", "tty component for --print-session-id")
	cmd.Flags().IntVar(&sessionIDPPID, "session-id-ppid", os.Getppid(), "ppid component for --print-session-id")
	cmd.Flags().Int64Var(&sessionIDStartTS, "session-id-start", 0, "start-time component for --print-session-id")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasExitCode = cmd.Flags().Changed("exit-code")
		return nil
	}

	return cmd
}

// parseEnvironPairs turns ["NAME=VALUE", ...] into a map, per the
// `environ{str→str}` JSON record field of spec.md §6.
func parseEnvironPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("record: malformed --env value %q, want NAME=VALUE", p)
		}
		out[name] = value
	}
	return out, nil
}
