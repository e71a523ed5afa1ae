package types

import "errors"

// DatabaseFileName is the name of the SQLite file created inside DataDir.
const DatabaseFileName = "mermaid-ui.db"

// Config holds the parameters for opening a Store.
type Config struct {
	// DataDir is the directory holding the database file. It is created
	// (recursively) if missing.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// Config validation errors.
var (
	ErrDataDirEmpty = errors.New("data directory must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	return nil
}
