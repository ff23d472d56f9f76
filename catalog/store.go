// Copyright 2025 Playlist Lab
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package catalog loads and validates song catalog revisions.
//
// A Store is the immutable record set for one served snapshot: built
// once from a revision, never mutated, discarded wholesale when the
// next snapshot replaces it.
package catalog

import (
	"slices"

	"github.com/playlistlab/crate/core"
)

// Store holds the validated, immutable record set of one catalog
// revision, addressable by ID.
type Store struct {
	records map[core.ID]*core.SongRecord
	ids     []core.ID // ascending; the canonical record order
}

// Load validates every entry of a revision and builds a Store.
//
// Validation does not stop at the first problem: all invalid entries
// are reported together as core.ValidationErrors. The revision must be
// non-empty, every entry must satisfy the catalog schema, and no two
// entries may share an identity (title + artists).
func Load(entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, core.ErrEmptyCatalog
	}

	var errs core.ValidationErrors
	records := make(map[core.ID]*core.SongRecord, len(entries))
	ids := make([]core.ID, 0, len(entries))

	for i, entry := range entries {
		record := toRecord(entry)
		core.NormalizeSongRecord(record)

		if entryErrs := core.ValidateSongRecord(i, record); len(entryErrs) > 0 {
			errs = append(errs, entryErrs...)
			continue
		}

		record.Id = core.IDFromContent(record.Identity())
		if _, dup := records[record.Id]; dup {
			errs = append(errs, &core.ValidationError{
				Index:  i,
				Field:  "title",
				Reason: core.ErrDuplicateEntry,
			})
			continue
		}

		records[record.Id] = record
		ids = append(ids, record.Id)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	slices.Sort(ids)
	return &Store{records: records, ids: ids}, nil
}

func toRecord(entry Entry) *core.SongRecord {
	return &core.SongRecord{
		Title:       entry.Title,
		Artists:     entry.Artist,
		Moods:       toFacet[core.Mood](entry.Mood),
		Activities:  toFacet[core.Activity](entry.Activity),
		Genres:      toFacet[core.Genre](entry.Genre),
		VibeTags:    toFacet[core.VibeTag](entry.VibeTags),
		Energy:      core.Energy(entry.Energy),
		Description: entry.Description,
	}
}

func toFacet[T ~string](values []string) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.ids)
}

// IDs returns all record IDs in ascending order. The caller must not
// modify the returned slice.
func (s *Store) IDs() []core.ID {
	return s.ids
}

// Record returns the record for id, or nil if absent.
func (s *Store) Record(id core.ID) *core.SongRecord {
	return s.records[id]
}

// Records returns all records in ascending ID order.
func (s *Store) Records() []*core.SongRecord {
	out := make([]*core.SongRecord, len(s.ids))
	for i, id := range s.ids {
		out[i] = s.records[id]
	}
	return out
}
