// Package password hashes and checks user passwords.
//
// Two schemes are available. StaticSalt reproduces the legacy digest
// (hex SHA-256 over password+salt with one global salt) so existing data
// files keep working. Bcrypt uses a per-user random salt and a slow hash
// and is the default for new deployments.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	SchemeBcrypt = "bcrypt"
	SchemeStatic = "static"
)

// Hasher turns a plaintext password into a stored digest and checks candidates against it.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) bool
}

// New returns the Hasher for the named scheme.
func New(scheme, salt string) (Hasher, error) {
	switch scheme {
	case SchemeBcrypt, "":
		return NewBcrypt(bcrypt.DefaultCost), nil
	case SchemeStatic:
		if salt == "" {
			return nil, fmt.Errorf("password: static scheme needs a salt")
		}
		return NewStaticSalt(salt), nil
	default:
		return nil, fmt.Errorf("password: unknown scheme %q", scheme)
	}
}

// ---------------------- STATIC SALT ----------------------

type StaticSalt struct {
	salt string
}

func NewStaticSalt(salt string) *StaticSalt {
	return &StaticSalt{salt: salt}
}

func (s *StaticSalt) Hash(password string) (string, error) {
	return s.digest(password), nil
}

func (s *StaticSalt) Compare(digest, password string) bool {
	return subtle.ConstantTimeCompare([]byte(digest), []byte(s.digest(password))) == 1
}

func (s *StaticSalt) digest(password string) string {
	sum := sha256.Sum256([]byte(password + s.salt))
	return hex.EncodeToString(sum[:])
}

// ---------------------- BCRYPT ----------------------

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("password: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Compare(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
