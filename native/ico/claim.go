package ico

import (
	"icoledger/core/events"
	"icoledger/core/sale"
)

// ClaimArgs releases the investor's vested, unclaimed tokens.
type ClaimArgs struct {
	Campaign [32]byte
	Investor [20]byte
	Ledger   [32]byte
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the claim operation is signed over.
func (a ClaimArgs) Digest() [32]byte {
	return operationDigest("sale.claim", a.Campaign, a.Investor[:], i64Bytes(a.Now))
}

// Claim computes the amount vested at Now across the investor's purchase
// entries, delivers the part not yet claimed and credits it to the
// investor's token account. Claiming is idempotent within a vesting step: a
// second claim at the same timestamp releases nothing.
func (e *Engine) Claim(args ClaimArgs) (uint64, error) {
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}
	if err := checkLedgerAddress(args.Ledger, c.ID, args.Investor); err != nil {
		return 0, e.reject(opClaim, err)
	}
	ledger, err := e.state.LedgerGet(c.ID, args.Investor)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}
	if err := requireInvestorSignature(args.Investor, args.Digest(), args.Auths); err != nil {
		return 0, e.reject(opClaim, err)
	}
	if c.StartPolicy == sale.VestingStartCampaign && !c.Launched() {
		return 0, e.reject(opClaim, sale.ErrNotLaunched)
	}
	vested, err := ledgerVested(c, ledger, args.Now)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}
	if vested <= ledger.Claimed {
		return 0, e.reject(opClaim, sale.ErrNothingToClaim)
	}
	claimable := vested - ledger.Claimed
	reserve, err := e.state.ReserveGet(c.ID)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}
	delivered, err := addU64(reserve.Delivered, claimable)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}
	if delivered > reserve.Sold {
		return 0, e.reject(opClaim, sale.ErrReserveExhausted)
	}
	account, err := e.state.AccountGet(args.Investor)
	if err != nil {
		return 0, e.reject(opClaim, err)
	}

	ledger.Claimed = vested
	reserve.Delivered = delivered
	account.Credit(claimable)

	if err := e.state.LedgerPut(ledger); err != nil {
		return 0, err
	}
	if err := e.state.ReservePut(reserve); err != nil {
		return 0, err
	}
	if err := e.state.AccountPut(args.Investor, account); err != nil {
		return 0, err
	}
	e.metrics.RecordClaim(claimable)
	e.metrics.SetReserve(reserve.Sold, reserve.Delivered, reserve.Transferred)
	e.emit(events.Claimed{
		Campaign: c.ID,
		Investor: args.Investor,
		Tokens:   claimable,
		Claimed:  ledger.Claimed,
		Time:     args.Now,
	})
	e.log.Info("tokens claimed",
		"campaign", c.Name,
		"tokens", claimable,
		"totalClaimed", ledger.Claimed,
		investorAttr(args.Investor),
	)
	return claimable, nil
}

// LedgerView is the read model answering "how much has this investor
// committed, vested and claimed" at a point in time.
type LedgerView struct {
	Campaign     [32]byte
	Investor     [20]byte
	Purchased    uint64
	Claimed      uint64
	Vested       uint64
	Claimable    uint64
	VestingStart int64
	Entries      []sale.PurchaseEntry
}

// QueryLedger resolves the investor's position at Now. It is read-only and
// requires no signatures.
func (e *Engine) QueryLedger(campaign [32]byte, investor [20]byte, now int64) (*LedgerView, error) {
	c, err := e.state.CampaignGet(campaign)
	if err != nil {
		return nil, err
	}
	ledger, err := e.state.LedgerGet(c.ID, investor)
	if err != nil {
		return nil, err
	}
	vested, err := ledgerVested(c, ledger, now)
	if err != nil {
		return nil, err
	}
	view := &LedgerView{
		Campaign:     c.ID,
		Investor:     investor,
		Purchased:    ledger.Purchased,
		Claimed:      ledger.Claimed,
		Vested:       vested,
		VestingStart: ledger.VestingStart,
		Entries:      append([]sale.PurchaseEntry(nil), ledger.Entries...),
	}
	if vested > ledger.Claimed {
		view.Claimable = vested - ledger.Claimed
	}
	if c.StartPolicy == sale.VestingStartCampaign {
		view.VestingStart = c.LaunchTime
	}
	return view, nil
}
