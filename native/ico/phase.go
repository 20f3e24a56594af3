package ico

import "icoledger/core/sale"

// The phase controller is lazy: the active phase is recomputed from the
// operation timestamp on every call, never cached and never advanced by a
// background timer. Phases are validated contiguous at campaign creation,
// so a timestamp that matches no phase is before the first phase, after the
// last one, or inside a configuration gap; purchases are rejected in all
// three cases.

// currentPhase resolves the phase containing ts.
func currentPhase(c *sale.Campaign, ts int64) (*sale.Phase, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Phases {
		if c.Phases[i].Contains(ts) {
			return &c.Phases[i], true
		}
	}
	return nil, false
}

// purchasePhase resolves the phase a purchase at ts falls into, enforcing the
// campaign lifecycle: a closed campaign accepts no purchases and an expected
// phase name must match the computed one.
func purchasePhase(c *sale.Campaign, ts int64, expected string) (*sale.Phase, error) {
	if c == nil {
		return nil, sale.ErrNotFound
	}
	if c.Status == sale.StatusClosed {
		return nil, sale.ErrAlreadyClosed
	}
	phase, ok := currentPhase(c, ts)
	if !ok {
		return nil, sale.ErrPhaseMismatch
	}
	if expected != "" && expected != phase.Name {
		return nil, sale.ErrPhaseMismatch
	}
	return phase, nil
}
