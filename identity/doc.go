// Copyright (c) 2025 Matelda contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity generates session codes and player display names.

# Display Names

Players get human-readable adjective-animal-number names:

	name := identity.GenerateUniqueName(existingNames)

GenerateUniqueName retries random draws while the candidate collides with
the existing set (bounded at 200 attempts) and then falls back to a
guaranteed-unique PlayerNNNN-<counter> scheme. It is a pure function of the
existing set plus randomness; the storage layer's uniqueness constraint
covers the check-then-insert race between concurrent joins.

# Session Codes

Session codes are 6 characters from an unambiguous alphabet (no 0/O/1/I/L),
drawn from crypto/rand:

	code, err := identity.GenerateSessionCode()

The caller collision-checks the code against the repository before use.

# Random IDs

GenerateID produces random hex identifiers, used for work items whose
seeder did not supply a sample id.
*/
package identity
