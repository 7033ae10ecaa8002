package lint

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Externals is an insertion-ordered set of externalize entries, unique by key.
// The first entry added for a key wins.
type Externals struct {
	keys    []string
	entries map[string]ExternalizeEntry
}

// NewExternals creates an empty set.
func NewExternals() *Externals {
	return &Externals{entries: make(map[string]ExternalizeEntry)}
}

// DedupExternals builds a set from entries in order, keeping the first entry per key.
func DedupExternals(entries []ExternalizeEntry) *Externals {
	e := NewExternals()
	for _, entry := range entries {
		e.Add(entry)
	}
	return e
}

// Add inserts the entry unless its key is already present.
// It reports whether the entry was kept.
func (e *Externals) Add(entry ExternalizeEntry) bool {
	if e.entries == nil {
		e.entries = make(map[string]ExternalizeEntry)
	}
	if _, ok := e.entries[entry.Key]; ok {
		return false
	}
	e.keys = append(e.keys, entry.Key)
	e.entries[entry.Key] = entry
	return true
}

// Get returns the entry for key.
func (e *Externals) Get(key string) (ExternalizeEntry, bool) {
	if e == nil {
		return ExternalizeEntry{}, false
	}
	entry, ok := e.entries[key]
	return entry, ok
}

// Len returns the number of entries.
func (e *Externals) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Keys returns the keys in insertion order.
func (e *Externals) Keys() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.keys...)
}

// Entries returns the entries in insertion order.
func (e *Externals) Entries() []ExternalizeEntry {
	if e == nil {
		return nil
	}
	out := make([]ExternalizeEntry, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, e.entries[k])
	}
	return out
}

// externalJSON is the object form of an entry in config/config.json.
type externalJSON struct {
	Path               string   `json:"path"`
	GlobalName         string   `json:"globalName,omitempty"`
	GlobalDependencies []string `json:"globalDependencies,omitempty"`
}

// MarshalJSON writes the SPFx config.json "externals" shape, preserving order.
// Entries without a global name or global dependencies are written as a bare path.
func (e Externals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range e.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		entry := e.entries[k]
		var value any = entry.Path
		if entry.GlobalName != "" || len(entry.GlobalDependencies) > 0 {
			value = externalJSON{
				Path:               entry.Path,
				GlobalName:         entry.GlobalName,
				GlobalDependencies: entry.GlobalDependencies,
			}
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the config.json "externals" shape, preserving key order.
func (e *Externals) UnmarshalJSON(data []byte) error {
	*e = Externals{entries: make(map[string]ExternalizeEntry)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("externals: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("externals: %s: %w", key, err)
		}

		entry := ExternalizeEntry{Key: key}
		var path string
		if err := json.Unmarshal(raw, &path); err == nil {
			entry.Path = path
		} else {
			var obj externalJSON
			if err := json.Unmarshal(raw, &obj); err != nil {
				return fmt.Errorf("externals: %s: %w", key, err)
			}
			entry.Path = obj.Path
			entry.GlobalName = obj.GlobalName
			entry.GlobalDependencies = obj.GlobalDependencies
		}
		e.Add(entry)
	}

	_, err = dec.Token()
	return err
}
