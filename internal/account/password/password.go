// Package password hashes and verifies admin credentials with Argon2id,
// encoded in the standard PHC string format so the parameters travel with
// the hash.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Hashing cost for new credentials. Stored hashes carry their own
// parameters, so these can be raised without invalidating old entries.
const (
	hashTime    uint32 = 1
	hashMemory  uint32 = 64 * 1024
	hashThreads uint8  = 4
	hashLen     uint32 = 32
	saltLen            = 16
)

// Hash derives an Argon2id hash from password with a fresh random salt.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, hashTime, hashMemory, hashThreads, hashLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		hashMemory, hashTime, hashThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the encoded hash, using the
// parameters recorded in the encoding rather than the current defaults.
func Verify(password, encoded string) bool {
	var version int
	var memory, timeCost uint32
	var threads uint8
	var tail string
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s",
		&version, &memory, &timeCost, &threads, &tail)
	if err != nil || n != 5 || version != argon2.Version {
		return false
	}
	// Sscanf's %s is greedy, so the salt and key come back as one token.
	saltB64, keyB64, ok := strings.Cut(tail, "$")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(keyB64)
	if err != nil {
		return false
	}

	check := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, check) == 1
}
