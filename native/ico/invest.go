package ico

import (
	"errors"

	"icoledger/core/events"
	"icoledger/core/sale"
)

// InvestArgs records a token purchase. Phase is the phase the caller expects
// to buy in; leaving it empty accepts whichever phase is active at Now.
// Schedule, when set, is a custom vesting rule overriding the round default
// for this entry.
type InvestArgs struct {
	Campaign [32]byte
	Investor [20]byte
	Ledger   [32]byte
	Phase    string
	Round    string
	Amount   uint64
	Schedule *sale.VestingSchedule
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the invest operation is signed over. Every field
// that changes what gets recorded is covered, so a relayed operation cannot
// have its schedule, phase or terms swapped after signing.
func (a InvestArgs) Digest() [32]byte {
	return operationDigest("sale.invest", a.Campaign,
		a.Investor[:], strBytes(a.Phase), strBytes(sale.NormalizeRound(a.Round)),
		u64Bytes(a.Amount), scheduleBytes(a.Schedule), i64Bytes(a.Now))
}

// Invest applies a purchase: it resolves the active phase from Now, prices
// the amount across the phase tiers, reserves the tokens and appends the
// purchase to the investor ledger. Every cap and arithmetic check runs
// before the first write.
func (e *Engine) Invest(args InvestArgs) (*sale.InvestorLedger, error) {
	if args.Amount == 0 {
		return nil, e.reject(opInvest, sale.ErrZeroAmount)
	}
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelRoutine); err != nil {
		return nil, e.reject(opInvest, err)
	}
	if err := checkLedgerAddress(args.Ledger, c.ID, args.Investor); err != nil {
		return nil, e.reject(opInvest, err)
	}
	roundLabel := sale.NormalizeRound(args.Round)
	round, ok := c.Round(roundLabel)
	if !ok {
		return nil, e.reject(opInvest, sale.ErrUnknownRound)
	}
	if args.Schedule != nil && !args.Schedule.Valid() {
		return nil, e.reject(opInvest, sale.ErrInvalidVestingSchedule)
	}
	if c.Launched() && !round.PostLaunch {
		return nil, e.reject(opInvest, sale.ErrAlreadyLaunched)
	}
	phase, err := purchasePhase(c, args.Now, args.Phase)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	reserve, err := e.state.ReserveGet(c.ID)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	ledger, err := e.state.LedgerGet(c.ID, args.Investor)
	if errors.Is(err, sale.ErrNotFound) {
		ledger = &sale.InvestorLedger{Campaign: c.ID, Investor: args.Investor}
		if c.StartPolicy == sale.VestingStartPurchase {
			ledger.VestingStart = args.Now
		}
	} else if err != nil {
		return nil, e.reject(opInvest, err)
	}

	phaseSold, err := addU64(phase.Sold, args.Amount)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	if phaseSold > phase.RaiseCap {
		return nil, e.reject(opInvest, sale.ErrCapExceeded)
	}
	if phase.InvestorCap > 0 {
		held, err := addU64(ledger.PhaseTokens(phase.Name), args.Amount)
		if err != nil {
			return nil, e.reject(opInvest, err)
		}
		if held > phase.InvestorCap {
			return nil, e.reject(opInvest, sale.ErrCapExceeded)
		}
	}
	tokensSold, err := addU64(c.TokensSold, args.Amount)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	if tokensSold > c.TotalSupply {
		return nil, e.reject(opInvest, sale.ErrCapExceeded)
	}
	reserveSold, err := addU64(reserve.Sold, args.Amount)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	committed, err := addU64(reserveSold, reserve.Transferred)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	if committed > reserve.Total {
		return nil, e.reject(opInvest, sale.ErrReserveExhausted)
	}
	cost, err := price(phase, c.PriceScale, phase.Sold, args.Amount)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	costRaised, err := addU64(c.CostRaised, cost)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}
	purchased, err := addU64(ledger.Purchased, args.Amount)
	if err != nil {
		return nil, e.reject(opInvest, err)
	}

	entry := sale.PurchaseEntry{
		Phase:  phase.Name,
		Round:  roundLabel,
		Tokens: args.Amount,
		Cost:   cost,
		Time:   args.Now,
	}
	if args.Schedule != nil {
		sched := *args.Schedule
		entry.Schedule = &sched
	}
	ledger.Entries = append(ledger.Entries, entry)
	ledger.Purchased = purchased
	phase.Sold = phaseSold
	c.TokensSold = tokensSold
	c.CostRaised = costRaised
	reserve.Sold = reserveSold

	if err := e.state.LedgerPut(ledger); err != nil {
		return nil, err
	}
	if err := e.state.CampaignPut(c); err != nil {
		return nil, err
	}
	if err := e.state.ReservePut(reserve); err != nil {
		return nil, err
	}
	e.metrics.RecordInvestment(args.Amount, cost)
	e.metrics.SetReserve(reserve.Sold, reserve.Delivered, reserve.Transferred)
	e.emit(events.Invested{
		Campaign: c.ID,
		Investor: args.Investor,
		Phase:    phase.Name,
		Round:    roundLabel,
		Tokens:   args.Amount,
		Cost:     cost,
		Time:     args.Now,
	})
	e.log.Info("investment recorded",
		"campaign", c.Name,
		"phase", phase.Name,
		"round", roundLabel,
		"tokens", args.Amount,
		"cost", cost,
		investorAttr(args.Investor),
	)
	return ledger.Clone(), nil
}

// CancelInvestmentArgs unwinds part of an investor's commitment in one round
// before the token launch.
type CancelInvestmentArgs struct {
	Campaign [32]byte
	Investor [20]byte
	Ledger   [32]byte
	Round    string
	Amount   uint64
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the cancel operation is signed over.
func (a CancelInvestmentArgs) Digest() [32]byte {
	return operationDigest("sale.investment.cancel", a.Campaign,
		a.Investor[:], strBytes(sale.NormalizeRound(a.Round)), u64Bytes(a.Amount), i64Bytes(a.Now))
}

// CancelInvestment removes Amount tokens from the investor's entries in the
// given round, oldest entry first, and returns the cost refunded. Refunds
// round down per entry so the refund never exceeds what was paid. Once the
// token has launched commitments are final.
func (e *Engine) CancelInvestment(args CancelInvestmentArgs) (uint64, error) {
	if args.Amount == 0 {
		return 0, e.reject(opCancel, sale.ErrZeroAmount)
	}
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	if c.Launched() {
		return 0, e.reject(opCancel, sale.ErrAlreadyLaunched)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelSensitive); err != nil {
		return 0, e.reject(opCancel, err)
	}
	if err := checkLedgerAddress(args.Ledger, c.ID, args.Investor); err != nil {
		return 0, e.reject(opCancel, err)
	}
	stored, err := e.state.LedgerGet(c.ID, args.Investor)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	roundLabel := sale.NormalizeRound(args.Round)

	ledger := stored.Clone()
	remaining := args.Amount
	var refund uint64
	removedByPhase := make(map[string]uint64)
	kept := ledger.Entries[:0]
	for _, entry := range ledger.Entries {
		if remaining == 0 || entry.Round != roundLabel {
			kept = append(kept, entry)
			continue
		}
		removed := entry.Tokens
		if removed > remaining {
			removed = remaining
		}
		slice, err := mulDivFloor(entry.Cost, removed, entry.Tokens)
		if err != nil {
			return 0, e.reject(opCancel, err)
		}
		refund, err = addU64(refund, slice)
		if err != nil {
			return 0, e.reject(opCancel, err)
		}
		removedByPhase[entry.Phase] += removed
		remaining -= removed
		if removed < entry.Tokens {
			entry.Tokens -= removed
			entry.Cost -= slice
			kept = append(kept, entry)
		}
	}
	if remaining > 0 {
		return 0, e.reject(opCancel, sale.ErrInvalidAmount)
	}
	ledger.Entries = kept
	ledger.Purchased, err = subU64(ledger.Purchased, args.Amount)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	if ledger.Purchased < ledger.Claimed {
		return 0, e.reject(opCancel, sale.ErrInvalidAmount)
	}
	for name, removed := range removedByPhase {
		phase, ok := c.PhaseByName(name)
		if !ok {
			return 0, e.reject(opCancel, sale.ErrPhaseMismatch)
		}
		phase.Sold, err = subU64(phase.Sold, removed)
		if err != nil {
			return 0, e.reject(opCancel, err)
		}
	}
	c.TokensSold, err = subU64(c.TokensSold, args.Amount)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	c.CostRaised, err = subU64(c.CostRaised, refund)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	reserve, err := e.state.ReserveGet(c.ID)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}
	reserve.Sold, err = subU64(reserve.Sold, args.Amount)
	if err != nil {
		return 0, e.reject(opCancel, err)
	}

	if ledger.Purchased == 0 && ledger.Claimed == 0 {
		if err := e.state.LedgerDelete(c.ID, args.Investor); err != nil {
			return 0, err
		}
	} else if err := e.state.LedgerPut(ledger); err != nil {
		return 0, err
	}
	if err := e.state.CampaignPut(c); err != nil {
		return 0, err
	}
	if err := e.state.ReservePut(reserve); err != nil {
		return 0, err
	}
	e.metrics.SetReserve(reserve.Sold, reserve.Delivered, reserve.Transferred)
	e.emit(events.InvestmentCancelled{
		Campaign: c.ID,
		Investor: args.Investor,
		Round:    roundLabel,
		Tokens:   args.Amount,
		Time:     args.Now,
	})
	e.log.Info("investment cancelled",
		"campaign", c.Name,
		"round", roundLabel,
		"tokens", args.Amount,
		"refund", refund,
		investorAttr(args.Investor),
	)
	return refund, nil
}
