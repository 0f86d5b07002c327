// Package extcrypto provides identifier and hashing functions for gocalc
// formulas.
//
// Security note: MD5 and SHA-1 are provided for fingerprinting only and
// should NOT be used for cryptographic security purposes.
package extcrypto

import (
	"context"
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // intentional: provided for non-security fingerprinting
	"crypto/sha1" //nolint:gosec // intentional
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"github.com/google/uuid"

	"github.com/sandrolain/gocalc/pkg/ext/extutil"
	"github.com/sandrolain/gocalc/pkg/functions"
)

// All returns all extended cryptographic function definitions.
func All() []functions.Definition {
	return []functions.Definition{
		NewGuid(),
		Hash(),
		HMAC(),
	}
}

// NewGuid returns the definition for NewGuid(), a random version 4 UUID
// string.
func NewGuid() functions.Definition {
	return extutil.Define("NewGuid", 0, 0, func(_ context.Context, _ ...interface{}) (interface{}, error) {
		id, err := uuid.NewRandom()
		if err != nil {
			return nil, extutil.Invalid("NewGuid", "%v", err)
		}
		return id.String(), nil
	})
}

// Hash returns the definition for Hash(str [, algorithm]).
// Supported algorithms: "md5", "sha1", "sha256" (default), "sha384",
// "sha512". Returns a lowercase hex-encoded digest.
func Hash() functions.Definition {
	return extutil.Define("Hash", 1, 2, func(_ context.Context, args ...interface{}) (interface{}, error) {
		str, err := extutil.String("Hash", args[0])
		if err != nil {
			return nil, err
		}
		newHash, err := hasher("Hash", args, 1)
		if err != nil {
			return nil, err
		}
		h := newHash()
		h.Write([]byte(str))
		return hex.EncodeToString(h.Sum(nil)), nil
	})
}

// HMAC returns the definition for HMAC(str, key [, algorithm]).
// Returns a lowercase hex-encoded HMAC.
func HMAC() functions.Definition {
	return extutil.Define("HMAC", 2, 3, func(_ context.Context, args ...interface{}) (interface{}, error) {
		str, err := extutil.String("HMAC", args[0])
		if err != nil {
			return nil, err
		}
		key, err := extutil.String("HMAC", args[1])
		if err != nil {
			return nil, err
		}
		newHash, err := hasher("HMAC", args, 2)
		if err != nil {
			return nil, err
		}
		mac := hmac.New(newHash, []byte(key))
		mac.Write([]byte(str))
		return hex.EncodeToString(mac.Sum(nil)), nil
	})
}

// ── helpers ────────────────────────────────────────────────────────────────

func hasher(name string, args []interface{}, i int) (func() hash.Hash, error) {
	algorithm := "sha256"
	if len(args) > i {
		s, err := extutil.String(name, args[i])
		if err != nil {
			return nil, err
		}
		algorithm = strings.ToLower(s)
	}
	switch algorithm {
	case "md5":
		return md5.New, nil //nolint:gosec
	case "sha1":
		return sha1.New, nil //nolint:gosec
	case "sha256":
		return sha256.New, nil
	case "sha384":
		return sha512.New384, nil
	case "sha512":
		return sha512.New, nil
	default:
		return nil, extutil.Invalid(name, "unsupported algorithm %q; use md5, sha1, sha256, sha384, or sha512", algorithm)
	}
}
