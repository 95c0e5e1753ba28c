// Package shortcode generates short codes and validates custom aliases.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"github.com/akarpov/shortly/internal/errs"
	"github.com/itchyny/base58-go"
)

// Length of generated short codes.
const Length = 8

// CodeRegexp matches generated codes. Base 58 is used to reduce
// confusion in character output (0OIl+/ are not used).
var CodeRegexp = regexp.MustCompile(`^[A-HJ-NP-Za-km-z1-9]{8}$`)

// aliasRegexp matches well-formed custom aliases.
var aliasRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// reserved are path segments served by the application itself and
// therefore unusable as aliases.
var reserved = map[string]struct{}{
	"api":  {},
	"ping": {},
}

// codeRange bounds the random number so that its base 58 encoding is
// exactly Length characters long.
var (
	codeMin = new(big.Int).Exp(big.NewInt(58), big.NewInt(Length-1), nil)
	codeMax = new(big.Int).Exp(big.NewInt(58), big.NewInt(Length), nil)
)

// Generate produces a random short code of Length characters.
// Collisions are improbable but possible; the caller must still rely
// on the storage uniqueness constraint.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, new(big.Int).Sub(codeMax, codeMin))
	if err != nil {
		return "", fmt.Errorf("generate short code: %w", err)
	}
	n.Add(n, codeMin)

	encoded := base58.BitcoinEncoding.EncodeUint64(n.Uint64())

	return string(encoded), nil
}

// Resolvable reports whether a path segment may identify a link, i.e.
// is shaped like a generated code or a custom alias.
func Resolvable(s string) bool {
	return CodeRegexp.MatchString(s) || aliasRegexp.MatchString(s)
}

// ValidateAlias reports whether the candidate may be used as a custom
// alias: 3-20 characters of [A-Za-z0-9_-], not a reserved path segment.
func ValidateAlias(candidate string) error {
	if !aliasRegexp.MatchString(candidate) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidAlias, candidate)
	}
	if _, ok := reserved[candidate]; ok {
		return fmt.Errorf("%w: %q is reserved", errs.ErrInvalidAlias, candidate)
	}
	return nil
}
