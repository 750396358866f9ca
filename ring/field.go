package ring

// Field exposes arithmetic modulo a prime q that fits in 32 bits. Every
// operand and result is in canonical form [0, q); intermediates widen to 64
// bits so products cannot overflow. How the reduction is carried out is an
// internal choice, not part of the contract.
type Field struct {
	q uint32
}

// NewField constructs a Field with modulus q. q must be an odd prime; only a
// cheap sanity check is done here, primality is the caller's responsibility.
func NewField(q uint32) (Field, error) {
	if q < 3 || q%2 == 0 {
		return Field{}, ErrInvalidParameter
	}
	return Field{q: q}, nil
}

// Q returns the modulus.
func (f Field) Q() uint32 { return f.q }

// Reduce maps an arbitrary signed value to its canonical representative.
func (f Field) Reduce(v int64) uint32 {
	q := int64(f.q)
	v %= q
	if v < 0 {
		v += q
	}
	return uint32(v)
}

// Add returns a+b mod q for canonical a, b.
func (f Field) Add(a, b uint32) uint32 {
	v := a + b
	if v >= f.q {
		v -= f.q
	}
	return v
}

// Sub returns a-b mod q for canonical a, b.
func (f Field) Sub(a, b uint32) uint32 {
	if a >= b {
		return a - b
	}
	return a + f.q - b
}

// Neg returns -a mod q for canonical a.
func (f Field) Neg(a uint32) uint32 {
	if a == 0 {
		return 0
	}
	return f.q - a
}

// Mul returns a*b mod q for canonical a, b, using a 64-bit intermediate.
func (f Field) Mul(a, b uint32) uint32 {
	return uint32(uint64(a) * uint64(b) % uint64(f.q))
}

// Pow returns a^e mod q by binary exponentiation.
func (f Field) Pow(a uint32, e uint64) uint32 {
	var res uint32 = 1
	base := a
	for e > 0 {
		if e&1 == 1 {
			res = f.Mul(res, base)
		}
		base = f.Mul(base, base)
		e >>= 1
	}
	return res
}

// Inv returns the multiplicative inverse of a via Fermat's little theorem.
// Valid only because q is prime; inverting zero is a domain error.
func (f Field) Inv(a uint32) (uint32, error) {
	if a == 0 {
		return 0, ErrZeroInverse
	}
	return f.Pow(a, uint64(f.q)-2), nil
}

// Center maps a canonical value to its centered representative in
// [-(q-1)/2, q/2] and is what the infinity norm is measured on.
func (f Field) Center(a uint32) int32 {
	if a > f.q/2 {
		return int32(a) - int32(f.q)
	}
	return int32(a)
}
