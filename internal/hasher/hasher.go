// Package hasher fingerprints emitted files so reports can be checked
// against what is on disk.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the hash length recorded in outcomes and reports.
const HexLen = 16

// Sum returns the xxHash64 of data as 16 hex chars.
func Sum(data []byte) string {
	return encode(xxhash.Sum64(data))
}

// SumReader streams r through xxHash64.
func SumReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return encode(h.Sum64()), nil
}

// SumFile hashes the file at path.
func SumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return SumReader(f)
}

func encode(v uint64) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, v))
}
