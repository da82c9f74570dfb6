package item

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// suffixLen is the number of Crockford base32 digits after the kind prefix.
// Ten digits carry 50 bits taken from the random tail of a UUIDv7.
const suffixLen = 10

const crockfordBase = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var idPrefixes = map[Kind]string{
	KindIdea:     "ID",
	KindFeature:  "FT",
	KindFeedback: "FB",
}

// IDPrefix returns the ID prefix of kind, e.g. "FT" for features. Seeded and
// generated IDs share the prefix.
func IDPrefix(kind Kind) string {
	return idPrefixes[kind]
}

// NewID returns an ID like "FT-3KX9Q0M2ZC" for kind. The suffix comes from
// the random tail of a fresh UUIDv7.
func NewID(kind Kind) (string, error) {
	prefix, ok := idPrefixes[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIDGenerationFailed, err)
	}

	return prefix + "-" + randomSuffix(u), nil
}

// randomSuffix encodes 50 bits of the UUIDv7 random tail (rand_b). Bytes 6-7
// carry the version and a sub-millisecond sequence, so the bits start after the
// two variant bits of byte 8 and end in the high nibble of byte 14.
func randomSuffix(u uuid.UUID) string {
	bits := uint64(u[8]&0x3f)<<44 |
		uint64(u[9])<<36 |
		uint64(u[10])<<28 |
		uint64(u[11])<<20 |
		uint64(u[12])<<12 |
		uint64(u[13])<<4 |
		uint64(u[14])>>4

	var sb strings.Builder

	sb.Grow(suffixLen)

	for shift := 5 * (suffixLen - 1); shift >= 0; shift -= 5 {
		sb.WriteByte(crockfordBase[(bits>>shift)&0x1f])
	}

	return sb.String()
}
