// Package store persists simulation sessions as a single JSON
// document, so a run can pick up the balances, trade log, and open
// orders of the previous one.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rustyeddy/cryptosim/journal"
	"github.com/rustyeddy/cryptosim/sim"
)

// SchemaVersion guards against loading documents written by an
// incompatible build.
const SchemaVersion = 1

// State is the persisted shape of a session.
type State struct {
	Version       int                   `json:"version"`
	Balance       float64               `json:"balance"`
	MarginBalance float64               `json:"marginBalance"`
	TradeHistory  []journal.TradeRecord `json:"tradeHistory"`
	OpenOrders    []sim.Order           `json:"openOrders"`
}

// Capture builds a persistable State from an engine snapshot.
func Capture(snap sim.Snapshot) State {
	return State{
		Version:       SchemaVersion,
		Balance:       snap.SpotBalance,
		MarginBalance: snap.MarginBalance,
		TradeHistory:  snap.TradeHistory,
		OpenOrders:    snap.OpenOrders,
	}
}

// Save writes the state atomically: a temp file in the same directory
// followed by a rename, so a crash mid-write never corrupts the
// previous save.
func Save(path string, st State) error {
	st.Version = SchemaVersion

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit state: %w", err)
	}
	return nil
}

// Load reads a saved session. A missing file is not an error: it
// returns ok=false so the caller starts a fresh session.
func Load(path string) (State, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, fmt.Errorf("decode state %s: %w", path, err)
	}
	if st.Version != SchemaVersion {
		return State{}, false, fmt.Errorf("state %s: schema version %d, want %d", path, st.Version, SchemaVersion)
	}
	return st, true, nil
}
