// Package storage persists completed-game records and derived statistics in
// a local BadgerDB database.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fisherchess"

// DataDir returns the per-user directory where game data lives, creating it
// on first use. Each platform gets its conventional location: Application
// Support on macOS, %APPDATA% on Windows, the XDG data home elsewhere.
func DataDir() (string, error) {
	base, err := baseDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func baseDataDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

// DatabaseDir returns the directory holding the game database, nested under
// DataDir so the whole application state lives in one place.
func DatabaseDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	db := filepath.Join(dir, "db")
	if err := os.MkdirAll(db, 0755); err != nil {
		return "", err
	}
	return db, nil
}
