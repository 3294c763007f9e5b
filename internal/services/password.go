package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Argon2idParams configures Argon2id hashing.
type Argon2idParams struct {
	Time        uint32
	MemoryKiB   uint32
	Parallelism uint8
	KeyLen      uint32
	SaltLen     uint32
}

// DefaultArgon2idParams: t=1, m=64MiB, p=4, 32-byte key, 16-byte salt.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Parallelism: 4, KeyLen: 32, SaltLen: 16}
}

// PasswordHasher produces and checks PHC-formatted argon2id hashes:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<hashB64>
type PasswordHasher struct {
	Params Argon2idParams
}

// Hash returns a PHC string for password with a fresh random salt.
func (h PasswordHasher) Hash(password string) (string, error) {
	p := h.Params
	if p.Time == 0 {
		p = DefaultArgon2idParams()
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "read salt")
	}
	dk := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLen)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.MemoryKiB, p.Time, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(dk),
	), nil
}

// Verify reports whether password matches encoded. The key comparison is
// constant time.
func (h PasswordHasher) Verify(encoded, password string) (bool, error) {
	p, salt, want, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// NeedsRehash reports whether encoded was made with different parameters.
func (h PasswordHasher) NeedsRehash(encoded string) bool {
	p, _, _, err := parseArgon2id(encoded)
	if err != nil {
		return true
	}
	want := h.Params
	if want.Time == 0 {
		want = DefaultArgon2idParams()
	}
	return p != want
}

func parseArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var out Argon2idParams
	if !strings.HasPrefix(encoded, "$argon2id$") {
		return out, nil, nil, errors.Errorf("unsupported password hash format")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return out, nil, nil, errors.Errorf("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return out, nil, nil, errors.Errorf("unsupported argon2 version")
	}
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, _ := strings.Cut(kv, "=")
		bits := 32
		if k == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(v, 10, bits)
		if err != nil {
			return out, nil, nil, errors.Wrapf(err, "argon2id param %s", k)
		}
		switch k {
		case "m":
			out.MemoryKiB = uint32(n)
		case "t":
			out.Time = uint32(n)
		case "p":
			out.Parallelism = uint8(n)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, nil, nil, errors.Wrap(err, "decode salt")
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, nil, nil, errors.Wrap(err, "decode hash")
	}
	if out.Time == 0 || out.MemoryKiB == 0 || out.Parallelism == 0 || len(hash) == 0 {
		return out, nil, nil, errors.Errorf("invalid argon2id parameters")
	}
	out.SaltLen = uint32(len(salt))
	out.KeyLen = uint32(len(hash))
	return out, salt, hash, nil
}
