package track

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/thiennguyenhieu/solana-bot/internal/util"
)

// Store persists the tracking ledger as a single JSON file, rewritten
// wholesale each cycle. There is no incremental format and no versioning;
// an unreadable file is treated as an empty ledger (cold start).
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore wraps the ledger file at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the full ledger. Missing or corrupt files yield an empty ledger.
func (s *Store) Load() Ledger {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("ledger unreadable, starting cold")
		}
		return Ledger{}
	}
	var ledger Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("ledger corrupt, starting cold")
		return Ledger{}
	}
	if ledger == nil {
		ledger = Ledger{}
	}
	return ledger
}

// Save atomically replaces the ledger file with the full new state.
func (s *Store) Save(ledger Ledger) error {
	return util.WriteJSONAtomic(s.path, ledger)
}
