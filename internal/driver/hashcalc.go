package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"pyfmt/internal/format"
	"pyfmt/internal/version"
)

// Digest is a SHA-256 sum.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// combineDigest: H(content || part1 || part2 ...). parts уже в детерминированном порядке.
func combineDigest(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ContentDigest hashes normalized file content.
func ContentDigest(content []byte) Digest {
	return sha256.Sum256(content)
}

// CacheKey binds file content to everything that can change the output:
// the formatter version and the options that reach the formatter.
func CacheKey(content Digest, opts format.Options) Digest {
	targets := make([]string, len(opts.TargetVersions))
	for i, v := range opts.TargetVersions {
		targets[i] = v.String()
	}
	skip := "strings"
	if opts.SkipStringNormalization {
		skip = "skip-strings"
	}
	return combineDigest(content, version.Version, strings.Join(targets, ","), skip)
}
