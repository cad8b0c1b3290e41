package models

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
)

// DisplayDecimals is the number of fractional digits
// shown for token amounts.
const DisplayDecimals = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Balance is a token amount in the token's smallest unit.
type Balance struct {
	Raw      *big.Int `json:"-"`
	Decimals int      `json:"-"`
}

func NewBalance(raw *big.Int, decimals int) Balance {
	if raw == nil {
		raw = new(big.Int)
	}
	return Balance{Raw: new(big.Int).Set(raw), Decimals: decimals}
}

// String returns amount shifted by Decimals
// and rounded half-up to DisplayDecimals places.
func (b Balance) String() string {
	return FormatUnits(b.Raw, b.Decimals, DisplayDecimals)
}

func (b Balance) MarshalJSON() ([]byte, error) {
	raw := "0"
	if b.Raw != nil {
		raw = b.Raw.String()
	}

	return json.Marshal(struct {
		Raw     string `json:"raw"`
		Display string `json:"display"`
	}{
		Raw:     raw,
		Display: b.String(),
	})
}

// FormatUnits shifts the decimal point of amount left by decimals
// and rounds half-up to exactly places fractional digits.
func FormatUnits(amount *big.Int, decimals, places int) string {
	if amount == nil {
		amount = new(big.Int)
	}

	neg := amount.Sign() < 0
	abs := new(big.Int).Abs(amount)

	// scaled = round(abs * 10^places / 10^decimals)
	num := new(big.Int).Mul(abs, pow10(places))
	den := pow10(decimals)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if new(big.Int).Lsh(r, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	digits := q.String()
	if places > 0 {
		if len(digits) <= places {
			digits = strings.Repeat("0", places-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-places] + "." + digits[len(digits)-places:]
	}

	if neg && q.Sign() != 0 {
		return "-" + digits
	}
	return digits
}

// ParseUnits converts a decimal string like "2" or "0.5"
// into the smallest unit with given decimals.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || strings.HasPrefix(s, "-") {
		return nil, ErrInvalidAmount
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > decimals {
		return nil, ErrInvalidAmount
	}
	frac += strings.Repeat("0", decimals-len(frac))

	out, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}

	return out, nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
