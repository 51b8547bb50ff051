// Package intern provides name lookup tables for argset schemas.
// Names are folded once at insertion so lookups during parsing are a single
// map access; single-rune names get a dedicated table for short-name clusters.
package intern

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Table maps argument names to stable descriptor ids.
//
// A Table is built while a schema is assembled and is read-only afterwards,
// so it carries no locking.
type Table struct {
	caseSensitive bool
	ids           map[string]int
	runes         map[rune]int
	names         map[int]string
}

// NewTable creates a table with optional pre-allocated capacity.
func NewTable(caseSensitive bool, capacity int) *Table {
	if capacity <= 0 {
		capacity = 16 // Default capacity
	}
	return &Table{
		caseSensitive: caseSensitive,
		ids:           make(map[string]int, capacity),
		runes:         make(map[rune]int),
		names:         make(map[int]string, capacity),
	}
}

// CaseSensitive reports whether lookups distinguish letter case.
func (t *Table) CaseSensitive() bool { return t.caseSensitive }

// Fold returns the lookup key for name.
func (t *Table) Fold(name string) string {
	if t.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

func (t *Table) foldRune(r rune) rune {
	if t.caseSensitive {
		return r
	}
	return unicode.ToLower(r)
}

// Add registers name for id. It returns false, leaving the table unchanged,
// when the folded name is already present.
func (t *Table) Add(name string, id int) bool {
	key := t.Fold(name)
	if _, exists := t.ids[key]; exists {
		return false
	}
	t.ids[key] = id
	t.names[id] = name
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError {
		t.runes[t.foldRune(r)] = id
	}
	return true
}

// Remove drops name from the table.
func (t *Table) Remove(name string) {
	key := t.Fold(name)
	id, ok := t.ids[key]
	if !ok {
		return
	}
	delete(t.ids, key)
	delete(t.names, id)
	if r, size := utf8.DecodeRuneInString(name); size == len(name) {
		delete(t.runes, t.foldRune(r))
	}
}

// Lookup resolves name to its id.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.ids[t.Fold(name)]
	return id, ok
}

// LookupRune resolves a one-rune name without building a string.
func (t *Table) LookupRune(r rune) (int, bool) {
	id, ok := t.runes[t.foldRune(r)]
	return id, ok
}

// Name returns the name registered for id, as originally spelled.
func (t *Table) Name(id int) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// Len returns the number of registered names.
func (t *Table) Len() int { return len(t.ids) }
