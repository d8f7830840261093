// Package cryptox hashes and verifies account passwords.
//
// New digests are argon2id in PHC string form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//
// Verify also accepts bcrypt digests ($2a$, $2b$, $2y$) so that credential
// tables imported from older deployments keep working.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Argon2Params are the cost settings applied to new digests. Existing digests
// are always verified with the parameters encoded inside them.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params matches the key derivation cost used elsewhere in the
// project: 64 MiB, one pass, four lanes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Upper bound on the memory cost accepted from a stored digest.
const maxMemoryKiB = 1 << 20

var ErrInvalidParams = errors.New("invalid argon2 parameters")

// PasswordHasher is safe for concurrent use.
type PasswordHasher struct {
	params Argon2Params
}

func NewPasswordHasher(p Argon2Params) (*PasswordHasher, error) {
	if p.Memory < 8 || p.Memory > maxMemoryKiB || p.Iterations == 0 || p.Parallelism == 0 ||
		p.SaltLength < 8 || p.KeyLength < 16 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}
	return &PasswordHasher{params: p}, nil
}

// Hash derives a fresh salted digest. Two calls with the same password never
// return the same string.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(int(h.params.SaltLength))
	if salt == nil {
		return "", errors.New("failed to generate salt")
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether digest was produced from password. A malformed or
// unsupported digest simply does not match.
func (h *PasswordHasher) Verify(password, digest string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}

	d, err := decodeDigest(digest)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(password), d.salt, d.iterations, d.memory, d.parallelism, uint32(len(d.key)))
	return subtle.ConstantTimeCompare(key, d.key) == 1
}

func isBcrypt(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") || strings.HasPrefix(digest, "$2b$") || strings.HasPrefix(digest, "$2y$")
}

type argon2Digest struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodeDigest(digest string) (*argon2Digest, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errors.New("not an argon2id digest")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	d := &argon2Digest{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &d.memory, &d.iterations, &d.parallelism); err != nil {
		return nil, fmt.Errorf("bad parameters: %w", err)
	}
	if d.memory == 0 || d.memory > maxMemoryKiB || d.iterations == 0 || d.parallelism == 0 {
		return nil, ErrInvalidParams
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(d.salt) == 0 {
		return nil, errors.New("bad salt encoding")
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(d.key) == 0 {
		return nil, errors.New("bad key encoding")
	}
	return d, nil
}
