package record

import (
	"encoding/json"
	"fmt"
	"os"
)

// ReadCommand parses a `command` record file.
func ReadCommand(path string) (*CommandJSON, error) {
	var rec CommandJSON
	if err := readJSON(path, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReadInit parses an `init` record file.
func ReadInit(path string) (*InitJSON, error) {
	var rec InitJSON
	if err := readJSON(path, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReadExit parses an `exit` record file.
func ReadExit(path string) (*ExitJSON, error) {
	var rec ExitJSON
	if err := readJSON(path, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read record file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse record file %s: %w", path, err)
	}
	return nil
}
