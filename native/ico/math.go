package ico

import (
	"math"
	"math/big"

	"icoledger/core/sale"
)

// Token and cost quantities are 64-bit integers in the smallest unit.
// Intermediate products are computed with big.Int so they cannot wrap; a
// final value outside the 64-bit range is an arithmetic violation.

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

func addU64(a, b uint64) (uint64, error) {
	if b > math.MaxUint64-a {
		return 0, sale.ErrArithmeticOverflow
	}
	return a + b, nil
}

// addI64 adds two timestamps or durations in the signed domain. Negative
// operands and sums past the int64 range are arithmetic violations.
func addI64(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, sale.ErrArithmeticOverflow
	}
	if a > math.MaxInt64-b {
		return 0, sale.ErrArithmeticOverflow
	}
	return a + b, nil
}

func subU64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, sale.ErrArithmeticOverflow
	}
	return a - b, nil
}

// mulDivFloor computes amount * num / den rounded down. Used wherever the
// result is owed to a participant: rounding down never exceeds the true
// entitlement.
func mulDivFloor(amount, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, sale.ErrArithmeticOverflow
	}
	product := new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(num))
	product.Quo(product, new(big.Int).SetUint64(den))
	if product.Cmp(maxUint64) > 0 {
		return 0, sale.ErrArithmeticOverflow
	}
	return product.Uint64(), nil
}

// mulDivCeil computes amount * num / den rounded up. Used wherever the
// result is charged to a participant: rounding up never undercharges.
func mulDivCeil(amount, num, den uint64) (uint64, error) {
	if den == 0 {
		return 0, sale.ErrArithmeticOverflow
	}
	product := new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(num))
	divisor := new(big.Int).SetUint64(den)
	quo, rem := new(big.Int).QuoRem(product, divisor, new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if quo.Cmp(maxUint64) > 0 {
		return 0, sale.ErrArithmeticOverflow
	}
	return quo.Uint64(), nil
}
