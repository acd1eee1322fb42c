package trade

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/thiennguyenhieu/solana-bot/internal/util"
)

// Store persists per-pair signal meta independently of the tracking ledger.
// It is loaded pre-filtered to the pairs currently tracked and saved filtered
// to an explicit active-id set, so the file never grows beyond the live set.
type Store struct {
	path string
	log  zerolog.Logger
}

// NewStore wraps the meta file at path.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log}
}

// Load reads the store and keeps only the requested ids. An unreadable or
// missing file is a cold start: every id maps to a fresh Meta.
func (s *Store) Load(activeIDs map[string]struct{}) map[string]*Meta {
	out := make(map[string]*Meta, len(activeIDs))
	for id := range activeIDs {
		out[id] = &Meta{}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("trade meta unreadable, starting cold")
		}
		return out
	}
	var disk map[string]*Meta
	if err := json.Unmarshal(data, &disk); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("trade meta corrupt, starting cold")
		return out
	}
	for id := range activeIDs {
		if meta, ok := disk[id]; ok && meta != nil {
			out[id] = meta
		}
	}
	return out
}

// Save writes the metas for the active ids, atomically replacing the file.
func (s *Store) Save(metas map[string]*Meta, activeIDs map[string]struct{}) error {
	filtered := make(map[string]*Meta, len(activeIDs))
	for id, meta := range metas {
		if meta == nil {
			continue
		}
		if _, ok := activeIDs[id]; ok {
			filtered[id] = meta
		}
	}
	return util.WriteJSONAtomic(s.path, filtered)
}
