package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ComputeChecksum computes a hex SHA-256 over named tensor records.
//
// Records are hashed in key order: name, shape, then the IEEE-754 bits of
// every value, all little-endian.
func ComputeChecksum(sections ...map[string]TensorRecord) string {
	h := sha256.New()
	var buf [8]byte

	for _, records := range sections {
		names := maps.Keys(records)
		slices.Sort(names)

		for _, name := range names {
			rec := records[name]
			h.Write([]byte(name))
			h.Write([]byte{0})
			for _, dim := range rec.Shape {
				binary.LittleEndian.PutUint64(buf[:], uint64(dim))
				h.Write(buf[:])
			}
			for _, v := range rec.Data {
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				h.Write(buf[:])
			}
		}
		h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored string) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}
