package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

const (
	chatHistoryFile = "chat_history.json"
	userStateFile   = "user_state.json"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// sessionPath resolves <dir>/<session>/<name>, refusing ids that could escape dir.
func sessionPath(dir, sessionID, name string) (string, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return "", errx.InvalidInput(fmt.Sprintf("invalid session id %q", sessionID))
	}
	return filepath.Join(dir, sessionID, name), nil
}

// readJSON decodes path into v and reports whether the file existed.
func readJSON(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errx.Storage(err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return true, errx.Storage(fmt.Errorf("decode %s: %w", filepath.Base(path), err))
	}
	return true, nil
}

// writeJSON replaces path atomically with the indented encoding of v.
func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errx.Storage(err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errx.Storage(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errx.Storage(err)
	}
	if err := tmp.Close(); err != nil {
		return errx.Storage(err)
	}
	return errx.Storage(os.Rename(tmp.Name(), path))
}

func removeFile(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return errx.Storage(err)
}
