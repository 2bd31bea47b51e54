// Package idgen generates the opaque, random identifiers the storage layer
// needs for records and ephemeral tables: spec.md §4.3's
// insert_records "{t}:{nanoid}" record ids, and the evaluator's
// opaquely-named ephemeral simplification/pair/temp tables (spec.md §3's
// "Lifecycle" — "every such allocation is matched by a drop").
//
// Grounded on the teacher's internal/idgen/hash.go base36 encoder, reused
// here for compact random identifiers instead of content hashes (content
// addressing itself lives in package record, since it needs the Record
// type).
package idgen

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// base36Alphabet is the character set for base36 encoding (0-9, a-z).
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// EncodeBase36 converts a byte slice to a base36 string of specified length,
// left-padding with zeros or truncating (keeping the least-significant
// digits) to hit that exact length.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	var result strings.Builder
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}
	return str
}

// defaultLength is the digit count of a NanoID: 16 base36 digits give well
// over 80 bits of entropy, comfortably collision-free for the lifetime of a
// single query's ephemeral tables.
const defaultLength = 16

// NanoID returns a random base36 string suitable as an opaque record or
// table-name suffix. Uses crypto/rand, not math/rand, since ids must never
// collide across concurrently-running benchmark processes sharing a
// filesystem-backed page directory in future extensions of this engine.
func NanoID() string {
	buf := make([]byte, defaultLength) // 1 byte per digit is generous but simple
	if _, err := rand.Read(buf); err != nil {
		panic("idgen: crypto/rand unavailable: " + err.Error())
	}
	return EncodeBase36(buf, defaultLength)
}
