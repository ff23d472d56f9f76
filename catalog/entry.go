package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Entry is one raw catalog record as authored in songs.json, prior to
// validation. Field names match the documented schema.
type Entry struct {
	Title       string     `json:"title"`
	Artist      StringList `json:"artist"`
	Mood        []string   `json:"mood"`
	Activity    []string   `json:"activity"`
	Energy      string     `json:"energy"`
	Genre       []string   `json:"genre"`
	VibeTags    []string   `json:"vibe_tags"`
	Description string     `json:"description"`
}

// StringList decodes either a JSON string or an array of strings.
// The catalog format allows a bare string for single-artist entries.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("artist must be a string or an array of strings: %w", err)
	}
	*l = StringList(many)
	return nil
}

// DecodeEntries reads a catalog revision (a JSON array of entries)
// from r. Decoding is purely syntactic; schema validation happens in Load.
func DecodeEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return entries, nil
}

// ReadFile decodes a catalog revision from a JSON file on disk.
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeEntries(f)
}
