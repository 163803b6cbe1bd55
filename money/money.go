// Package money implements spec.md §4.4/§9's integer micro-unit arithmetic:
// binary floating point is unacceptable for ledger balances, so every stored
// and accumulated amount is an int64 count of micro-coins (1 coin = 1e6
// micro-coins), and decimal coin values are only materialized at the edges
// (wire JSON, operator CLI output).
package money

import (
	"math/big"
)

const microPerCoin = 1_000_000

// ToMicro converts a decimal coin amount to integer micro-units, rounding to
// the nearest micro-unit (spec.md §4.4: "upsert_balance stores round(balance
// * 1e6)").
func ToMicro(coins float64) int64 {
	r := new(big.Rat).SetFloat64(coins)
	if r == nil {
		return 0
	}
	r.Mul(r, big.NewRat(microPerCoin, 1))

	num := new(big.Int).Set(r.Num())
	den := r.Denom()

	half := new(big.Int).Rsh(den, 0)
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	doubled := new(big.Int).Lsh(new(big.Int).Abs(rem), 1)
	if doubled.Cmp(den) >= 0 {
		if num.Sign() < 0 {
			quo.Sub(quo, big.NewInt(1))
		} else {
			quo.Add(quo, big.NewInt(1))
		}
	}
	_ = half

	return quo.Int64()
}

// ToCoins converts integer micro-units to a decimal coin value, quantized to
// 7 fractional digits (spec.md §4.4).
func ToCoins(micro int64) float64 {
	r := big.NewRat(micro, microPerCoin)
	s := r.FloatString(7)
	f := new(big.Float)
	f.SetString(s)
	out, _ := f.Float64()
	return out
}

// ToCoinsString renders micro-units as a 7-fractional-digit decimal string,
// for operator-facing output where float64 formatting would be lossy.
func ToCoinsString(micro int64) string {
	return big.NewRat(micro, microPerCoin).FloatString(7)
}
