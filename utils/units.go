package utils

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// EtherDecimals is the number of decimals of ether and of the pool tokens.
const EtherDecimals = 18

var decimalPattern = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

// ParseEther converts a decimal ether amount such as "1.5" to wei.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// ParseUnits converts a non-negative decimal string to its base-unit integer
// at the given number of decimals. More fractional digits than decimals is an
// error rather than a silent truncation.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if decimals < 0 {
		return nil, errors.Errorf("decimals must be >= 0, got %d", decimals)
	}
	if !decimalPattern.MatchString(amount) {
		return nil, errors.Errorf("invalid decimal amount %q", amount)
	}

	intPart, fracPart, _ := strings.Cut(amount, ".")
	if len(fracPart) > decimals {
		return nil, errors.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	combined := strings.TrimLeft(intPart+fracPart+strings.Repeat("0", decimals-len(fracPart)), "0")
	if combined == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, errors.Errorf("invalid decimal amount %q", amount)
	}
	return n, nil
}

// FormatUnits renders a base-unit integer as a decimal string. Whole values
// keep one fractional digit ("2.0"), the way ethers prints them.
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		value = new(big.Int)
	}
	sign := ""
	abs := new(big.Int).Set(value)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}
	s := abs.String()
	if decimals <= 0 {
		return sign + s + ".0"
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")
	if fracPart == "" {
		fracPart = "0"
	}
	return fmt.Sprintf("%s%s.%s", sign, intPart, fracPart)
}

// FormatEther is FormatUnits at 18 decimals.
func FormatEther(value *big.Int) string {
	return FormatUnits(value, EtherDecimals)
}
