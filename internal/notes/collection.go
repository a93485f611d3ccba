package notes

import (
	"encoding/json"
	"fmt"

	"github.com/sahilm/fuzzy"
)

// Collection is an ordered list of notes, newest first. Operations return a
// fresh slice and never write through to the receiver.
type Collection []Note

func (c Collection) clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Prepend puts n at position 0.
func (c Collection) Prepend(n Note) Collection {
	out := make(Collection, 0, len(c)+1)
	out = append(out, n)
	return append(out, c...)
}

// UpdateField sets one field of the note with the given id. It reports false
// and returns an unchanged copy when no note has that id.
func (c Collection) UpdateField(id int64, field Field, value string) (Collection, bool) {
	out := c.clone()
	for i := range out {
		if out[i].ID != id {
			continue
		}
		switch field {
		case FieldTitle:
			out[i].Title = value
		case FieldDescription:
			out[i].Description = value
		default:
			return out, false
		}
		return out, true
	}
	return out, false
}

// Remove drops the note with the given id.
func (c Collection) Remove(id int64) (Collection, bool) {
	out := make(Collection, 0, len(c))
	found := false
	for _, n := range c {
		if n.ID == id {
			found = true
			continue
		}
		out = append(out, n)
	}
	return out, found
}

func (c Collection) Find(id int64) (Note, bool) {
	for _, n := range c {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Filter fuzzy-matches query against title and description. Order is kept.
func (c Collection) Filter(query string) Collection {
	if query == "" {
		return c.clone()
	}

	haystack := make([]string, len(c))
	for i, n := range c {
		haystack[i] = n.Title + " " + n.Description
	}

	matches := fuzzy.Find(query, haystack)
	keep := make(map[int]bool, len(matches))
	for _, m := range matches {
		keep[m.Index] = true
	}

	var out Collection
	for i, n := range c {
		if keep[i] {
			out = append(out, n)
		}
	}
	return out
}

// Encode serializes the collection as a JSON array. An empty or nil
// collection encodes as [].
func Encode(c Collection) ([]byte, error) {
	if c == nil {
		c = Collection{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding notes: %w", err)
	}
	return data, nil
}

// Decode parses the JSON array produced by Encode.
func Decode(data []byte) (Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding notes: %w", err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}
