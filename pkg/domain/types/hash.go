package types

import (
	"crypto/md5"  // #nosec G501 -- offered for compatibility with legacy checksum files
	"crypto/sha1" // #nosec G505 -- same as above
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/md4"       //nolint:staticcheck // legacy algorithm kept for existing workflows
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // same as above
	"golang.org/x/crypto/sha3"
)

// HashAlgorithm identifies a supported digest algorithm
type HashAlgorithm string

const (
	HashMD4        HashAlgorithm = "md4"
	HashMD5        HashAlgorithm = "md5"
	HashSHA1       HashAlgorithm = "sha1"
	HashRIPEMD160  HashAlgorithm = "ripemd160"
	HashSHA224     HashAlgorithm = "sha224"
	HashSHA256     HashAlgorithm = "sha256"
	HashSHA384     HashAlgorithm = "sha384"
	HashSHA512     HashAlgorithm = "sha512"
	HashSHA512_224 HashAlgorithm = "sha512-224"
	HashSHA512_256 HashAlgorithm = "sha512-256"
	HashSHA3_224   HashAlgorithm = "sha3-224"
	HashSHA3_256   HashAlgorithm = "sha3-256"
	HashSHA3_384   HashAlgorithm = "sha3-384"
	HashSHA3_512   HashAlgorithm = "sha3-512"
	HashSHAKE128   HashAlgorithm = "shake128"
	HashSHAKE256   HashAlgorithm = "shake256"
	HashBLAKE2b256 HashAlgorithm = "blake2b256"
	HashBLAKE2b512 HashAlgorithm = "blake2b512"
	HashBLAKE3     HashAlgorithm = "blake3"

	// DefaultHashAlgorithm is used when no algorithm is configured
	DefaultHashAlgorithm = HashSHA256
)

var hashConstructors = map[HashAlgorithm]func() hash.Hash{
	HashMD4:        md4.New,
	HashMD5:        md5.New,
	HashSHA1:       sha1.New,
	HashRIPEMD160:  ripemd160.New,
	HashSHA224:     sha256.New224,
	HashSHA256:     sha256.New,
	HashSHA384:     sha512.New384,
	HashSHA512:     sha512.New,
	HashSHA512_224: sha512.New512_224,
	HashSHA512_256: sha512.New512_256,
	HashSHA3_224:   sha3.New224,
	HashSHA3_256:   sha3.New256,
	HashSHA3_384:   sha3.New384,
	HashSHA3_512:   sha3.New512,
	HashSHAKE128:   func() hash.Hash { return newShake(sha3.NewShake128(), 16) },
	HashSHAKE256:   func() hash.Hash { return newShake(sha3.NewShake256(), 32) },
	HashBLAKE2b256: func() hash.Hash { return mustBLAKE2b(blake2b.New256) },
	HashBLAKE2b512: func() hash.Hash { return mustBLAKE2b(blake2b.New512) },
	HashBLAKE3:     func() hash.Hash { return blake3.New() },
}

// blake2b constructors only fail for oversized keys, and no key is ever passed
func mustBLAKE2b(newFn func(key []byte) (hash.Hash, error)) hash.Hash {
	h, err := newFn(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// shakeHash fixes the output length of an extendable-output function so it
// can be used as a hash.Hash. Lengths follow the common shake128/shake256
// defaults of 16 and 32 bytes.
type shakeHash struct {
	sha3.ShakeHash
	size int
}

func newShake(h sha3.ShakeHash, size int) hash.Hash {
	return &shakeHash{ShakeHash: h, size: size}
}

func (x *shakeHash) Size() int {
	return x.size
}

// Sum reads from a clone so the running state can still accept writes
func (x *shakeHash) Sum(b []byte) []byte {
	out := make([]byte, x.size)
	_, _ = x.ShakeHash.Clone().Read(out)
	return append(b, out...)
}

// ParseHashAlgorithm converts a configuration value into a HashAlgorithm.
// Empty input selects DefaultHashAlgorithm. Unknown names are rejected with
// ErrInvalidConfig.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return DefaultHashAlgorithm, nil
	}

	algo := HashAlgorithm(name)
	if _, ok := hashConstructors[algo]; !ok {
		return "", goerr.Wrap(ErrInvalidConfig, "unsupported hash algorithm",
			goerr.V("algorithm", s),
			goerr.V("supported", SupportedHashAlgorithms()),
		)
	}
	return algo, nil
}

// SupportedHashAlgorithms returns all accepted algorithm names in a stable order
func SupportedHashAlgorithms() []string {
	return []string{
		string(HashMD4), string(HashMD5), string(HashSHA1), string(HashRIPEMD160),
		string(HashSHA224), string(HashSHA256), string(HashSHA384), string(HashSHA512),
		string(HashSHA512_224), string(HashSHA512_256),
		string(HashSHA3_224), string(HashSHA3_256), string(HashSHA3_384), string(HashSHA3_512),
		string(HashSHAKE128), string(HashSHAKE256),
		string(HashBLAKE2b256), string(HashBLAKE2b512), string(HashBLAKE3),
	}
}

// New returns a fresh hash.Hash. It panics for values that did not come from
// ParseHashAlgorithm or the constants above.
func (x HashAlgorithm) New() hash.Hash {
	newFn, ok := hashConstructors[x]
	if !ok {
		panic("unsupported hash algorithm: " + string(x))
	}
	return newFn()
}

func (x HashAlgorithm) String() string {
	return string(x)
}
