// Package runstate records where a running errboard server listens so that
// client commands started from the same directory can find it.
package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// DirName is the name of the directory storing runtime state
	DirName = ".errboard"
	// FileName is the name of the state file
	FileName = "errboard.state"
)

// ErrStateNotFound is returned when no state file exists
var ErrStateNotFound = errors.New("state file not found")

// State holds the runtime state of a running errboard server.
//
// State is not safe for concurrent use. The server writes it once at startup
// and clients only read it.
type State struct {
	PID          int       `json:"pid"`
	Port         int       `json:"port"`
	Host         string    `json:"host"`
	StartedAt    time.Time `json:"started_at"`
	ConfigFile   string    `json:"config_file"`
	Snapshot     string    `json:"snapshot,omitempty"`
	AuthRequired bool      `json:"auth_required,omitempty"`
}

// Address returns the base URL clients use to reach the server.
func (s *State) Address() string {
	host := s.Host
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port))
}

// Validate checks that the state describes a reachable server.
func (s *State) Validate() error {
	if s.PID <= 0 {
		return fmt.Errorf("invalid PID: %d", s.PID)
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	if s.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if s.ConfigFile == "" {
		return fmt.Errorf("config file cannot be empty")
	}
	return nil
}

// Write writes the state to the state file in the given directory
func (s *State) Write(dir string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if err := EnsureDir(dir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	f, err := os.OpenFile(Path(dir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing state file: %w", err)
	}

	return nil
}

// Load reads the state from the state file in the given directory
func Load(dir string) (*State, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshaling state: %w", err)
	}

	return &state, nil
}

// Remove removes the state file from the given directory
func Remove(dir string) error {
	if err := os.Remove(Path(dir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}

// Dir returns the path to the .errboard directory in the given directory.
// If dir is empty, uses the current working directory.
func Dir(dir string) string {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			// Fall back to relative path rather than creating at root
			return DirName
		}
	}
	return filepath.Join(dir, DirName)
}

// Path returns the full path to the state file
func Path(dir string) string {
	return filepath.Join(Dir(dir), FileName)
}

// EnsureDir creates the .errboard directory if it doesn't exist
func EnsureDir(dir string) error {
	if err := os.MkdirAll(Dir(dir), 0700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
