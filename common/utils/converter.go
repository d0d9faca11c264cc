package utils

import (
	"math/big"
	"strings"
)

// EtherDecimals is the number of decimals between wei and ether
const EtherDecimals = 18

// FormatUnits converts an integer amount to a decimal string without float precision loss.
// Trailing fractional zeros are trimmed but at least one fractional digit is kept,
// e.g. FormatUnits(1500000000000000000, 18) = "1.5", FormatUnits(0, 18) = "0.0".
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0.0"
	}

	neg := value.Sign() < 0
	s := new(big.Int).Abs(value).String()

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	pos := len(s) - decimals
	whole, frac := s[:pos], strings.TrimRight(s[pos:], "0")
	if frac == "" {
		frac = "0"
	}

	if neg {
		whole = "-" + whole
	}
	return whole + "." + frac
}

// FormatEther formats a wei amount as ether
func FormatEther(wei *big.Int) string {
	return FormatUnits(wei, EtherDecimals)
}
