// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// idLength is the number of hex characters in a generated revision token.
const idLength = 12

var idPattern = regexp.MustCompile(`^[0-9a-f]{12}$`)

// NewID returns a fresh 12-character lowercase hex token taken from the tail
// of a random UUID.
func NewID() string {
	raw := uuid.New()
	encoded := hex.EncodeToString(raw[:])
	return encoded[len(encoded)-idLength:]
}

// IsGeneratedID reports whether id has the shape produced by [NewID].
func IsGeneratedID(id string) bool {
	return idPattern.MatchString(id)
}
