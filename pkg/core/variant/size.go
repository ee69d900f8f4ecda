package variant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SizeKind discriminates how a region is sized.
type SizeKind uint8

const (
	// SizeFraction is a rational share of the container width.
	SizeFraction SizeKind = iota
	// SizeFull spans the whole container (single-region variants, row bands).
	SizeFull
	// SizeAuthored carries a raw width token supplied by the page author.
	SizeAuthored
	// SizeAuto leaves sizing to the presentation layer (column splitter with no width).
	SizeAuto
)

// Size is the width of a region: a fraction, the "full" sentinel, an authored
// token, or "auto". Sizes are comparable values.
type Size struct {
	Kind  SizeKind
	Num   int
	Den   int
	Token string
}

// Fraction returns a fractional size num/den, reduced to lowest terms.
func Fraction(num, den int) Size {
	if g := gcd(num, den); g > 1 {
		num, den = num/g, den/g
	}
	return Size{Kind: SizeFraction, Num: num, Den: den}
}

// Full returns the "full" sentinel size.
func Full() Size { return Size{Kind: SizeFull} }

// Authored returns a size carrying a raw width token. An empty token yields [Auto].
func Authored(token string) Size {
	token = strings.TrimSpace(token)
	if token == "" {
		return Auto()
	}
	return Size{Kind: SizeAuthored, Token: token}
}

// Auto returns the size of a region whose width is left to the presentation layer.
func Auto() Size { return Size{Kind: SizeAuto} }

// IsFraction reports whether the size is numeric.
func (s Size) IsFraction() bool { return s.Kind == SizeFraction }

// Float returns the numeric value of a fractional size.
func (s Size) Float() (float64, bool) {
	if !s.IsFraction() || s.Den == 0 {
		return 0, false
	}
	return float64(s.Num) / float64(s.Den), true
}

// String renders the size as the host renderer expects it: "3/10", "full",
// the raw authored token, or "auto".
func (s Size) String() string {
	switch s.Kind {
	case SizeFraction:
		return fmt.Sprintf("%d/%d", s.Num, s.Den)
	case SizeFull:
		return "full"
	case SizeAuthored:
		return s.Token
	default:
		return "auto"
	}
}

// authoredJSON is the JSON form of an authored size. It keeps authored
// tokens that look like "full" or "1/3" from decoding as catalog sizes.
type authoredJSON struct {
	Authored string `json:"authored"`
}

// MarshalJSON encodes fractions, "full" and "auto" as their [Size.String]
// form and authored sizes as {"authored": token}.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.Kind == SizeAuthored {
		return json.Marshal(authoredJSON{Authored: s.Token})
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON is the inverse of [Size.MarshalJSON].
func (s *Size) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = ParseSize(text)
		return nil
	}
	var a authoredJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decode size: %w", err)
	}
	*s = Authored(a.Authored)
	return nil
}

// ParseSize reads the presentation form produced by [Size.String]. Fractions,
// "full" and "auto" are recognized; anything else is an authored token. An
// authored token spelled like a fraction parses as a fraction, so use JSON
// where the kind must survive.
func ParseSize(text string) Size {
	text = strings.TrimSpace(text)
	switch text {
	case "full":
		return Full()
	case "", "auto":
		return Auto()
	}
	if n, d, ok := strings.Cut(text, "/"); ok {
		num, err1 := strconv.Atoi(n)
		den, err2 := strconv.Atoi(d)
		if err1 == nil && err2 == nil && num > 0 && den > 0 {
			return Fraction(num, den)
		}
	}
	return Authored(text)
}

// SumFractions adds the fractional sizes exactly and returns the reduced result.
// Non-fractional sizes are skipped.
func SumFractions(sizes []Size) (num, den int) {
	num, den = 0, 1
	for _, s := range sizes {
		if !s.IsFraction() {
			continue
		}
		num = num*s.Den + s.Num*den
		den *= s.Den
		if g := gcd(num, den); g > 1 {
			num, den = num/g, den/g
		}
	}
	return num, den
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
