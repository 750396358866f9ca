package ring

import "errors"

var (
	// ErrInvalidParameter reports an unusable ring shape: a degree that is
	// not a power of two, a modulus without the roots of unity the
	// transform needs, or mismatched vector/matrix dimensions.
	ErrInvalidParameter = errors.New("ring: invalid parameter")

	// ErrWrongDomain reports a polynomial passed to an operation that
	// expects the other evaluation domain.
	ErrWrongDomain = errors.New("ring: polynomial in wrong domain")

	// ErrZeroInverse reports an inversion of the zero element.
	ErrZeroInverse = errors.New("ring: inverse of zero")

	// ErrMalformedInput reports a byte buffer whose length does not match
	// the encoding being decoded.
	ErrMalformedInput = errors.New("ring: malformed input")
)
