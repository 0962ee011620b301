// Package rules provides a simple, deterministic, concurrency-safe keyword
// matcher for the chatbot's rule-based reply engine. It is intentionally small
// and free of I/O, but engineered with production-grade ergonomics:
//
//   - No logging in the library (callers decide how/what to log)
//   - Pure functions over immutable snapshots (safe for concurrent use)
//   - Unicode-aware normalization shared by storage and matching
//   - Deterministic selection (strictly first-match-in-order, no scoring)
//   - Total behavior: every input yields a Result, never an error
//
// Matching is substring containment over normalized text: the first rule in
// snapshot order whose keyword occurs anywhere in the message wins. There is
// deliberately no longest-match preference and no word-boundary handling; a
// snapshot holding both "hi" and "this" answers "this is great" with whichever
// of the two comes first. Callers that want different precedence reorder the
// snapshot, not the matcher.
package rules

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Fallback is the reply returned when no rule matches. User-facing chat must
// always produce a reply, so "no match" is a normal outcome, not an error.
const Fallback = "I'm sorry, I didn't understand that. Can you please rephrase?"

// Rule is one snapshot entry: an already-normalized keyword and the verbatim
// response returned when it matches.
type Rule struct {
	Keyword  string
	Response string
}

// Result is the outcome of resolving one message against a snapshot.
type Result struct {
	// Matched reports whether any rule's keyword was found in the message.
	Matched bool
	// Keyword is the normalized keyword that matched; empty on fallback.
	Keyword string
	// Response is the reply text (a rule's response, or Fallback).
	Response string
}

// Normalize canonicalizes text for storage and comparison: NFC unicode
// normalization, unicode whitespace mapped to ASCII space, lowercasing,
// internal runs collapsed to a single space, and surrounding space trimmed.
//
// Keywords and messages go through the same function, so a keyword stored as
// "how are you" matches a message typed with a non-breaking space or doubled
// spacing.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Resolve maps message to at most one response using the given snapshot.
//
// The message is normalized, then rules are walked in the order given; the
// first rule whose keyword is a contiguous substring of the message wins.
// An empty message, an empty snapshot, or no hit all yield the Fallback with
// Matched=false. Resolve never mutates rules and is a pure function of its
// arguments, so identical calls return identical results.
func Resolve(message string, snapshot []Rule) Result {
	msg := Normalize(message)
	if msg == "" {
		return Result{Matched: false, Response: Fallback}
	}
	for _, r := range snapshot {
		if r.Keyword == "" {
			continue
		}
		if strings.Contains(msg, r.Keyword) {
			return Result{Matched: true, Keyword: r.Keyword, Response: r.Response}
		}
	}
	return Result{Matched: false, Response: Fallback}
}
