package ttt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Base-3 encoding of the board, cell 0 is the most significant digit
// (0 = empty, 1 = cross, 2 = circle). The side to move is implied by the
// number of marks.
type Fingerprint uint32

// Number of distinct fingerprints, 3^9
const FingerprintLimit Fingerprint = 19683

func (f Fingerprint) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

func (f Fingerprint) IsValid() bool {
	return f < FingerprintLimit
}

func (p Position) Fingerprint() Fingerprint {
	var f Fingerprint
	for _, c := range p.board {
		f = f*3 + Fingerprint(c)
	}
	return f
}

// Decode the board, fails with ErrMalformedFingerprint outside [0, 3^9)
func FromFingerprint(f Fingerprint) (Position, error) {
	if !f.IsValid() {
		return Position{}, errors.Wrapf(ErrMalformedFingerprint, "%d is out of range", f)
	}

	var p Position
	for i := BoardSize - 1; i >= 0; i-- {
		p.set(PosType(i), PlayerType(f%3))
		f /= 3
	}
	return p, nil
}

// Decode the decimal form of a fingerprint
func ParseFingerprint(s string) (Position, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return Position{}, errors.Wrapf(ErrMalformedFingerprint, "%q is not a number", s)
	}
	return FromFingerprint(Fingerprint(n))
}
