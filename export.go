package bcasweb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/AguayoD/bcasweb/storage"
)

// ErrEmptyExport is returned by ParseExport when the document holds none of
// the known records.
var ErrEmptyExport = errors.New("no content records found")

// exportFields maps the field names of an exported Content document to the
// storage keys they are kept under.
var exportFields = map[string]string{
	"hero":      KeyHero,
	"aboutHero": KeyAboutHero,
	"news":      KeyNews,
	"events":    KeyEvents,
	"sections":  KeySections,
	"team":      KeyTeam,
	"values":    KeyValues,
}

// ParseExport reads a document written by the export command, or a dump of
// the browser edition's localStorage: an object keyed by storage key whose
// values are the records either inline or as JSON-encoded strings.
//
// The records go through the same loading path as stored content, so
// missing records become defaults and malformed ones are logged to log and
// replaced by defaults.
func ParseExport(data []byte, log zerolog.Logger) (Content, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Content{}, fmt.Errorf("parse export: %w", err)
	}

	mem := storage.NewMemory()
	found := 0
	for name, raw := range doc {
		key, ok := exportFields[name]
		if !ok {
			key = name
		}
		if !isStorageKey(key) {
			continue
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err != nil {
				return Content{}, fmt.Errorf("parse export %s: %w", name, err)
			}
			raw = json.RawMessage(s)
		}
		if err := mem.Set(key, raw); err != nil {
			return Content{}, err
		}
		found++
	}
	if found == 0 {
		return Content{}, ErrEmptyExport
	}

	s, err := NewStore(mem, WithLogger(log))
	if err != nil {
		return Content{}, err
	}
	return s.Snapshot(), nil
}

func isStorageKey(key string) bool {
	switch key {
	case KeyNews, KeyEvents, KeyHero, KeyAboutHero, KeySections, KeyTeam, KeyValues:
		return true
	}
	return false
}
