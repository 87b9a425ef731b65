package ticket

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

var (
	ErrInvalidID         = errors.New("ticket id must be a 5-digit number")
	ErrEmptyCode         = errors.New("ticket code is empty")
	ErrIDSpaceExhausted  = errors.New("ticket id space exhausted")
	ErrNonPositiveLength = errors.New("id generation attempts must be positive")
)

// IDLength is the width of the short numeric ticket identifier. The id is the
// half of the scannable code that staff can read out loud, so it stays short;
// uniqueness across the whole ledger is enforced at generation time.
const IDLength = 5

type ID string

func NewID(s string) (ID, error) {
	if len(s) != IDLength {
		return "", ErrInvalidID
	}
	if _, err := strconv.Atoi(s); err != nil {
		return "", ErrInvalidID
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

// IDSource produces candidate ids. Production uses RandomIDSource; tests
// substitute deterministic sequences.
type IDSource func() ID

func RandomIDSource() IDSource {
	return func() ID {
		// 10000..99999 keeps the width fixed without leading zeros.
		return ID(strconv.Itoa(rand.IntN(90000) + 10000))
	}
}

// GenerateID rolls candidate ids until one is not taken, bounded by
// maxAttempts. Collisions are expected occasionally and recovered here;
// exhausting the attempts means the id space is effectively full and is a
// fatal operational condition.
func GenerateID(src IDSource, taken func(ID) bool, maxAttempts int) (ID, error) {
	if maxAttempts < 1 {
		return "", ErrNonPositiveLength
	}

	for i := 0; i < maxAttempts; i++ {
		candidate := src()
		if !taken(candidate) {
			return candidate, nil
		}
	}

	return "", ErrIDSpaceExhausted
}

type Code string

const codeSuffixLength = 10

// DeriveCode builds the scannable token from the id and the holder name. The
// derivation is deterministic; the code guarantees uniqueness (via the unique
// id), not secrecy.
func DeriveCode(id ID, holderName string) Code {
	sum := sha256.Sum256([]byte(id.String() + "|" + holderName))
	suffix := hex.EncodeToString(sum[:])[:codeSuffixLength]
	return Code(fmt.Sprintf("%s-%s", id, suffix))
}

func NewCode(s string) (Code, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyCode
	}
	return Code(trimmed), nil
}

func (c Code) String() string {
	return string(c)
}
