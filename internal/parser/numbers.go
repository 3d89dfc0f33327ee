package parser

import (
	"math/big"
	"strconv"
	"strings"
)

func parseFloatLexeme(lexeme string) (float64, error) {
	clean := strings.ReplaceAll(lexeme, "_", "")
	return strconv.ParseFloat(clean, 64)
}

func newRat(num, den *big.Int) *big.Rat {
	return new(big.Rat).SetFrac(num, den)
}
