// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"fmt"
	"strings"
	"testing"
)

func TestGenerateNameFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := GenerateName()
		parts := strings.Split(name, "-")
		if len(parts) != 3 {
			t.Fatalf("Expected adjective-animal-number, got %q", name)
		}

		foundAdj := false
		for _, a := range adjectives {
			if a == parts[0] {
				foundAdj = true
				break
			}
		}
		if !foundAdj {
			t.Errorf("Unknown adjective %q in name %q", parts[0], name)
		}

		foundAnimal := false
		for _, a := range animals {
			if a == parts[1] {
				foundAnimal = true
				break
			}
		}
		if !foundAnimal {
			t.Errorf("Unknown animal %q in name %q", parts[1], name)
		}
	}
}

func TestGenerateUniqueNameAvoidsExisting(t *testing.T) {
	existing := map[string]bool{}
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		name := GenerateUniqueName(existing)
		if existing[name] {
			t.Fatalf("Generated name %q is already taken", name)
		}
		if seen[name] {
			t.Fatalf("Generated duplicate name %q across calls with updated set", name)
		}
		seen[name] = true
		existing[name] = true
	}
}

func TestGenerateUniqueNameFallback(t *testing.T) {
	// Occupy the entire vocabulary so every random draw collides.
	existing := make(map[string]bool, len(adjectives)*len(animals)*100)
	for _, adj := range adjectives {
		for _, animal := range animals {
			for n := 0; n < 100; n++ {
				existing[fmt.Sprintf("%s-%s-%d", adj, animal, n)] = true
			}
		}
	}

	name := GenerateUniqueName(existing)
	if !strings.HasPrefix(name, "Player") {
		t.Errorf("Expected fallback name with Player prefix, got %q", name)
	}
	if existing[name] {
		t.Errorf("Fallback name %q collides with vocabulary names", name)
	}
}

func TestGenerateSessionCode(t *testing.T) {
	code, err := GenerateSessionCode()
	if err != nil {
		t.Fatalf("Failed to generate session code: %v", err)
	}
	if len(code) != codeLength {
		t.Errorf("Expected code length %d, got %d (%q)", codeLength, len(code), code)
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Errorf("Code %q contains character %q outside the alphabet", code, c)
		}
	}

	other, err := GenerateSessionCode()
	if err != nil {
		t.Fatalf("Failed to generate second session code: %v", err)
	}
	if code == other {
		t.Errorf("Two generated codes are identical: %q", code)
	}
}

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(8)
	if err != nil {
		t.Fatalf("Failed to generate ID: %v", err)
	}
	if len(id) != 16 {
		t.Errorf("Expected 16 hex characters for 8 bytes, got %d (%q)", len(id), id)
	}
}
