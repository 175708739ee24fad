// Package dictionary implements the dictionary-based crackability check.
// It answers one question: does the candidate password match, or trivially
// derive from, a known word or the user's own identity? The structural
// analysis lives in internal/policy; this package is the lookup oracle it
// composes with.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

// Match reasons. Like the reason strings in internal/policy these are part
// of the contract: they surface verbatim to callers.
const (
	ReasonDictionaryWord = "Password is based on a dictionary word"
	ReasonReversedWord   = "Password is based on a reversed dictionary word"
	ReasonLoginDerived   = "Password is based on the login name"
	ReasonDisplayDerived = "Password is based on the user's name"
)

// Checker holds the word set for lookups. Construct once at startup and
// share freely; Check performs read-only lookups and is safe for concurrent
// use.
type Checker struct {
	words map[string]struct{}
}

// New returns a Checker over the embedded common-password list.
func New() *Checker {
	c := &Checker{words: make(map[string]struct{})}
	c.addWords(strings.NewReader(commonPasswordsRaw))
	return c
}

// NewFromFile returns a Checker over the embedded list plus the words in
// the named file (one word per line, blank lines and leading/trailing
// whitespace ignored).
func NewFromFile(path string) (*Checker, error) {
	c := New()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", path, err)
	}
	defer f.Close()

	if err := c.addWords(f); err != nil {
		return nil, fmt.Errorf("reading dictionary %s: %w", path, err)
	}
	return c, nil
}

// Len reports the number of words loaded.
func (c *Checker) Len() int {
	return len(c.words)
}

func (c *Checker) addWords(r interface{ Read([]byte) (int, error) }) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		c.words[strings.ToLower(word)] = struct{}{}
	}
	return scanner.Err()
}

// Check looks the password up against the word set and, when identity hints
// are supplied, against strings derivable from them. It returns the match
// reason and true on a hit. Lookups are case-insensitive; hints may be
// empty, in which case only the word set is consulted.
func (c *Checker) Check(password, login, display string) (string, bool) {
	lower := strings.ToLower(password)

	if _, hit := c.words[lower]; hit {
		return ReasonDictionaryWord, true
	}
	if _, hit := c.words[reverse(lower)]; hit {
		return ReasonReversedWord, true
	}

	if login != "" && derivedFrom(lower, strings.ToLower(login)) {
		return ReasonLoginDerived, true
	}
	if display != "" {
		for _, token := range strings.Fields(strings.ToLower(display)) {
			if derivedFrom(lower, token) {
				return ReasonDisplayDerived, true
			}
		}
	}

	return "", false
}

// derivedFrom reports whether password trivially derives from word: it
// contains the word or its reversal. Words shorter than 3 bytes are ignored
// to avoid matching on initials.
func derivedFrom(password, word string) bool {
	if len(word) < 3 {
		return false
	}
	return strings.Contains(password, word) || strings.Contains(password, reverse(word))
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
