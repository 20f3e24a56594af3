package ico

import "icoledger/core/sale"

// price partitions a purchase across the phase's tiers and returns its total
// cost. cumulativeSold is the amount of tokens sold in the phase before this
// purchase; a purchase crossing a tier boundary pays each slice at that
// tier's price, never the entry tier's price for the whole amount. Cost
// division by the campaign price scale rounds up, so rounding never favours
// the investor.
func price(phase *sale.Phase, priceScale, cumulativeSold, amount uint64) (uint64, error) {
	if phase == nil || amount == 0 {
		return 0, sale.ErrZeroAmount
	}
	remaining := amount
	position := cumulativeSold
	var cost uint64
	for _, tier := range phase.Tiers {
		if remaining == 0 {
			break
		}
		if tier.UpTo != 0 && position >= tier.UpTo {
			continue
		}
		slice := remaining
		if tier.UpTo != 0 && position+slice > tier.UpTo {
			slice = tier.UpTo - position
		}
		sliceCost, err := mulDivCeil(slice, tier.UnitPrice, priceScale)
		if err != nil {
			return 0, err
		}
		cost, err = addU64(cost, sliceCost)
		if err != nil {
			return 0, err
		}
		position, err = addU64(position, slice)
		if err != nil {
			return 0, err
		}
		remaining -= slice
	}
	if remaining > 0 {
		// The purchase runs past the last bounded tier; the phase has no
		// price for it.
		return 0, sale.ErrCapExceeded
	}
	return cost, nil
}
