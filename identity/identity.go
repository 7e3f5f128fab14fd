// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	crand "crypto/rand"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sync/atomic"
)

// Display name vocabularies. Adjective count x animal count x 100 numbers
// gives ~78k combinations per session before the fallback kicks in.
var adjectives = []string{
	"amber", "bold", "brave", "calm", "clever", "crimson", "daring",
	"eager", "fuzzy", "gentle", "golden", "jolly", "keen", "lively",
	"lucky", "mellow", "nimble", "plucky", "quick", "quiet", "rapid",
	"shiny", "silent", "sly", "swift", "tidy", "witty", "zesty",
}

var animals = []string{
	"badger", "bat", "bison", "crane", "dingo", "falcon", "ferret",
	"fox", "gecko", "heron", "ibis", "koala", "lemur", "lynx",
	"marmot", "mole", "otter", "owl", "panda", "raven", "seal",
	"stork", "tapir", "toucan", "vole", "walrus", "wombat", "yak",
}

// maxNameAttempts bounds the collision-avoidance loop in GenerateUniqueName.
const maxNameAttempts = 200

var fallbackCounter atomic.Int64

// GenerateName returns a random adjective-animal-number display name.
func GenerateName() string {
	adj := adjectives[rand.Intn(len(adjectives))]
	animal := animals[rand.Intn(len(animals))]
	return fmt.Sprintf("%s-%s-%d", adj, animal, rand.Intn(100))
}

// GenerateUniqueName returns a display name not present in existing.
// It retries with fresh random draws up to maxNameAttempts, then falls back
// to a counter-suffixed name that cannot collide with the vocabulary names.
// The caller is responsible for existing reflecting all registered names in
// the target session; the storage layer's uniqueness constraint is the
// backstop for the remaining check-then-insert window.
func GenerateUniqueName(existing map[string]bool) string {
	for i := 0; i < maxNameAttempts; i++ {
		name := GenerateName()
		if !existing[name] {
			return name
		}
	}
	return fmt.Sprintf("Player%04d-%d", rand.Intn(10000), fallbackCounter.Add(1))
}

// codeAlphabet omits 0/O/1/I/L to keep codes readable when shared aloud.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// codeLength is the session code length in characters.
const codeLength = 6

// GenerateSessionCode creates a short random session code suitable for a
// shareable join link. Uniqueness is collision-checked by the caller
// against the repository.
func GenerateSessionCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := crand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
