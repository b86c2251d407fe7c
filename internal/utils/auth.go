package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

// VerifyAPIKey reports whether an Authorization header value carries the
// configured API key. The expected shape is "Bearer <token>" with a
// case-insensitive scheme keyword; any other shape fails. The comparison
// runs over sha256 digests so its timing does not depend on where the
// tokens first differ, even for tokens of unequal length.
//
// Callers decide what an absent header means; this function only judges a
// header that is present.
func VerifyAPIKey(authorization, apiKey string) bool {
	parts := strings.Fields(authorization)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return false
	}
	provided := sha256.Sum256([]byte(parts[1]))
	expected := sha256.Sum256([]byte(apiKey))
	return subtle.ConstantTimeCompare(provided[:], expected[:]) == 1
}
