package types

import "errors"

// Config selects the store engine and where containers live.
type Config struct {
	Engine    string `json:"engine" yaml:"engine"`
	Dir       string `json:"dir" yaml:"dir"`
	Extension string `json:"extension" yaml:"extension"`
	Journal   string `json:"journal" yaml:"journal"`
}

// Supported engine names.
const (
	EngineSQLite = "sqlite"
)

// Supported journal modes for the sqlite engine.
const (
	JournalWAL    = "wal"
	JournalDelete = "delete"
	JournalMemory = "memory"
)

// DefaultExtension is appended to container paths that carry none.
const DefaultExtension = ".sdf"

// Config validation errors.
var (
	ErrEngineEmpty    = errors.New("engine must not be empty")
	ErrEngineUnknown  = errors.New("unknown engine")
	ErrJournalUnknown = errors.New("unknown journal mode")
)

var knownEngines = map[string]bool{
	EngineSQLite: true,
}

var knownJournals = map[string]bool{
	"":            true,
	JournalWAL:    true,
	JournalDelete: true,
	JournalMemory: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Engine == "" {
		return ErrEngineEmpty
	}
	if !knownEngines[c.Engine] {
		return ErrEngineUnknown
	}
	if !knownJournals[c.Journal] {
		return ErrJournalUnknown
	}
	return nil
}

// ContainerExt returns the configured container extension or the default.
func (c Config) ContainerExt() string {
	if c.Extension == "" {
		return DefaultExtension
	}
	return c.Extension
}
