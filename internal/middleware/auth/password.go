package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/text/unicode/norm"
)

const (
	// SaltSize is the number of random bytes generated per user.
	SaltSize = 64
	// KeyLen is the length of a derived password hash.
	KeyLen = 192
)

var ErrMemoryLimit = errors.New("scrypt parameters exceed memory limit")

// Params are the scrypt work factors. N must be a power of two > 1.
type Params struct {
	N      int
	R      int
	P      int
	KeyLen int
	MaxMem int // bytes; 128*N*R must not exceed it
}

// DefaultParams is the production work factor: N=2^17 under a 144 MiB ceiling.
var DefaultParams = Params{
	N:      1 << 17,
	R:      8,
	P:      1,
	KeyLen: KeyLen,
	MaxMem: 144 * 1024 * 1024,
}

// Hasher derives password hashes with fixed scrypt parameters.
type Hasher struct {
	params Params
}

func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// GenerateSalt returns SaltSize bytes from crypto/rand.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Derive hashes the NFC-normalized password with salt. It never returns an
// empty hash without an error.
func (h *Hasher) Derive(password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, errors.New("derive password hash: empty salt")
	}
	if h.params.MaxMem > 0 && 128*h.params.N*h.params.R > h.params.MaxMem {
		return nil, ErrMemoryLimit
	}

	normalized := norm.NFC.String(password)
	hash, err := scrypt.Key([]byte(normalized), salt, h.params.N, h.params.R, h.params.P, h.params.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("derive password hash: %w", err)
	}
	if len(hash) == 0 {
		return nil, errors.New("derive password hash: empty result")
	}
	return hash, nil
}

// Verify compares two hashes in constant time. Unequal lengths return false
// without looking at the content.
func Verify(candidate, stored []byte) bool {
	if len(candidate) != len(stored) {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, stored) == 1
}
