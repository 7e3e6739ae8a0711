// Package reply maps an inbound message body to a canned reply.
//
// Matching is exact after lowercasing and trimming the input. There is no
// substring or fuzzy matching; anything not in the table gets the fallback.
package reply

import (
	"maps"
	"slices"
	"strings"
)

const (
	GreetingReply = "Hi there! How can I help you today?"
	StatusReply   = "Your application status is: Approved ✅"

	// DefaultFallback is sent when no keyword matches.
	DefaultFallback = "Sorry, I didn't understand that. Please type 'hello' or 'status' for assistance."
)

// DefaultTable returns a fresh copy of the built-in keyword table.
func DefaultTable() map[string]string {
	return map[string]string{
		"hello":  GreetingReply,
		"status": StatusReply,
	}
}

// Selector is immutable once built and safe for concurrent use.
type Selector struct {
	table    map[string]string
	fallback string
}

// NewSelector builds a Selector from a keyword table. Keys are normalized the
// same way inputs are, so "Hello " and "hello" are the same keyword. An empty
// fallback falls back to DefaultFallback.
func NewSelector(table map[string]string, fallback string) *Selector {
	normalized := make(map[string]string, len(table))
	for k, v := range table {
		key := Normalize(k)
		if key == "" {
			continue
		}
		normalized[key] = v
	}
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Selector{table: normalized, fallback: fallback}
}

// Normalize lowercases and trims a message body.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Select returns the reply for text. Every input, including "", yields a reply.
func (s *Selector) Select(text string) string {
	if r, ok := s.table[Normalize(text)]; ok {
		return r
	}
	return s.fallback
}

// Match reports which keyword text matched, if any.
func (s *Selector) Match(text string) (string, bool) {
	key := Normalize(text)
	_, ok := s.table[key]
	if !ok {
		return "", false
	}
	return key, true
}

// Keywords returns the known keywords in sorted order.
func (s *Selector) Keywords() []string {
	return slices.Sorted(maps.Keys(s.table))
}

func (s *Selector) Fallback() string {
	return s.fallback
}
