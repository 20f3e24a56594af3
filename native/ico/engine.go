package ico

import (
	"log/slog"

	"icoledger/core/events"
	"icoledger/core/sale"
	"icoledger/core/types"
	"icoledger/crypto"
	"icoledger/observability/logging"
	"icoledger/observability/metrics"
)

// DefaultTimelockDelay is the minimum age of a queued reserve transfer
// before it may execute.
const DefaultTimelockDelay int64 = 2 * 24 * 60 * 60

// State is the persistence surface the engine drives. Every method returns
// freshly decoded records, so mutations stay invisible until the matching
// Put.
type State interface {
	CampaignGet(id [32]byte) (*sale.Campaign, error)
	CampaignPut(c *sale.Campaign) error
	CampaignExists(id [32]byte) (bool, error)
	LedgerGet(campaign [32]byte, investor [20]byte) (*sale.InvestorLedger, error)
	LedgerPut(l *sale.InvestorLedger) error
	LedgerDelete(campaign [32]byte, investor [20]byte) error
	ReserveGet(campaign [32]byte) (*sale.Reserve, error)
	ReservePut(r *sale.Reserve) error
	AdminKeysGet(campaign [32]byte) (*sale.AdminKeySet, error)
	AdminKeysPut(s *sale.AdminKeySet) error
	TimelockGet(campaign [32]byte) (*sale.TimelockQueue, error)
	TimelockPut(q *sale.TimelockQueue) error
	AccountGet(addr [20]byte) (*types.Account, error)
	AccountPut(addr [20]byte, account *types.Account) error
}

// Engine applies sale operations against persistent state. Operations are
// atomic: every check runs before the first write, so a rejected operation
// leaves no partial mutation behind.
type Engine struct {
	state         State
	emitter       events.Emitter
	log           *slog.Logger
	metrics       *metrics.SaleMetrics
	timelockDelay int64
}

// NewEngine constructs an engine over the given state with a no-op event
// emitter and the default timelock delay.
func NewEngine(state State) *Engine {
	return &Engine{
		state:         state,
		emitter:       events.NoopEmitter{},
		log:           slog.Default(),
		metrics:       metrics.Sale(),
		timelockDelay: DefaultTimelockDelay,
	}
}

// SetEmitter wires the engine to an event sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetLogger replaces the engine logger.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	e.log = log
}

// SetTimelockDelay overrides the reserve transfer timelock delay.
func (e *Engine) SetTimelockDelay(delay int64) {
	if delay > 0 {
		e.timelockDelay = delay
	}
}

func (e *Engine) emit(event events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(event)
	}
}

// reject records a failed operation and passes the error through.
// Arithmetic violations indicate malicious input or a modeling bug and are
// logged as errors; everything else is an expected rejection.
func (e *Engine) reject(op string, err error) error {
	class := sale.Classify(err)
	e.metrics.RecordRejection(op, class.String())
	if class == sale.ClassArithmetic {
		e.log.Error("sale operation rejected", "operation", op, "error", err)
	} else {
		e.log.Info("sale operation rejected", "operation", op, "error", err)
	}
	return err
}

// investorAttr renders an investor address for logging. Identity fields are
// masked by the redaction policy.
func investorAttr(addr [20]byte) slog.Attr {
	return logging.MaskField("investor", crypto.NewAddress(crypto.InvestorPrefix, addr[:]).String())
}

const (
	opInitialize      = "initialize_campaign"
	opInvest          = "invest"
	opCancel          = "cancel_investment"
	opLaunch          = "launch"
	opClaim           = "claim"
	opForceClose      = "force_close"
	opQueueTransfer   = "queue_reserve_transfer"
	opExecuteTransfer = "execute_reserve_transfer"
	opUpdateAdmins    = "update_admin_keys"
)

// InitializeCampaignArgs creates a campaign together with its reserve and
// admin key set. The operation is self-certifying: the proposed admin keys
// must sign it at critical level.
type InitializeCampaignArgs struct {
	Campaign  *sale.Campaign
	AdminKeys [][20]byte
	Now       int64
	Auths     []Authorization
}

// Digest returns the bytes the initialize operation is signed over.
func (a InitializeCampaignArgs) Digest() [32]byte {
	var id [32]byte
	if a.Campaign != nil {
		id = sale.CampaignID(a.Campaign.Name, a.Campaign.TokenSymbol)
	}
	fields := make([][]byte, 0, len(a.AdminKeys)+1)
	fields = append(fields, i64Bytes(a.Now))
	for _, key := range a.AdminKeys {
		key := key
		fields = append(fields, key[:])
	}
	return operationDigest("sale.campaign.initialize", id, fields...)
}

// InitializeCampaign validates and persists a new campaign. The campaign ID
// is derived from the name and token symbol; initializing the same pair
// twice is rejected.
func (e *Engine) InitializeCampaign(args InitializeCampaignArgs) (*sale.Campaign, error) {
	if args.Campaign == nil {
		return nil, e.reject(opInitialize, sale.ErrInvalidPhaseSchedule)
	}
	c := args.Campaign.Clone()
	c.ID = sale.CampaignID(c.Name, c.TokenSymbol)
	c.Status = sale.StatusActive
	c.CreatedAt = args.Now
	c.LaunchTime = 0
	c.ClosedAt = 0
	c.TokensSold = 0
	c.CostRaised = 0
	for i := range c.Phases {
		c.Phases[i].Sold = 0
	}
	for i := range c.Rounds {
		c.Rounds[i].Round = sale.NormalizeRound(c.Rounds[i].Round)
	}
	if err := c.Validate(); err != nil {
		return nil, e.reject(opInitialize, err)
	}
	if err := validateAdminKeys(args.AdminKeys); err != nil {
		return nil, e.reject(opInitialize, err)
	}
	exists, err := e.state.CampaignExists(c.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, e.reject(opInitialize, sale.ErrAlreadyInitialized)
	}
	keys := &sale.AdminKeySet{Campaign: c.ID, Keys: append([][20]byte(nil), args.AdminKeys...)}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelCritical); err != nil {
		return nil, e.reject(opInitialize, err)
	}
	reserve := &sale.Reserve{Campaign: c.ID, Total: c.TotalSupply}
	if err := e.state.CampaignPut(c); err != nil {
		return nil, err
	}
	if err := e.state.ReservePut(reserve); err != nil {
		return nil, err
	}
	if err := e.state.AdminKeysPut(keys); err != nil {
		return nil, err
	}
	e.metrics.SetReserve(reserve.Sold, reserve.Delivered, reserve.Transferred)
	e.emit(events.CampaignInitialized{
		Campaign:    c.ID,
		Name:        c.Name,
		TokenSymbol: c.TokenSymbol,
		TotalSupply: c.TotalSupply,
		Phases:      len(c.Phases),
		CreatedAt:   c.CreatedAt,
	})
	e.log.Info("campaign initialized",
		"campaign", c.Name,
		"token", c.TokenSymbol,
		"supply", c.TotalSupply,
		"phases", len(c.Phases),
	)
	return c.Clone(), nil
}

// LaunchArgs marks the token launch, starting the campaign-wide vesting
// clock.
type LaunchArgs struct {
	Campaign   [32]byte
	LaunchTime int64
	Now        int64
	Auths      []Authorization
}

// Digest returns the bytes the launch operation is signed over.
func (a LaunchArgs) Digest() [32]byte {
	return operationDigest("sale.launch", a.Campaign, i64Bytes(a.LaunchTime), i64Bytes(a.Now))
}

// Launch records the launch timestamp. A campaign launches once; the
// timestamp must be positive and not before creation.
func (e *Engine) Launch(args LaunchArgs) error {
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return e.reject(opLaunch, err)
	}
	if c.Status == sale.StatusClosed {
		return e.reject(opLaunch, sale.ErrAlreadyClosed)
	}
	if c.Launched() {
		return e.reject(opLaunch, sale.ErrAlreadyLaunched)
	}
	if args.LaunchTime <= 0 || args.LaunchTime < c.CreatedAt {
		return e.reject(opLaunch, sale.ErrInvalidLaunchTime)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return e.reject(opLaunch, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelCritical); err != nil {
		return e.reject(opLaunch, err)
	}
	c.LaunchTime = args.LaunchTime
	if err := e.state.CampaignPut(c); err != nil {
		return err
	}
	e.emit(events.Launched{Campaign: c.ID, LaunchTime: c.LaunchTime, TokensSold: c.TokensSold})
	e.log.Info("campaign launched", "campaign", c.Name, "launchTime", c.LaunchTime)
	return nil
}

// ForceCloseArgs terminates a campaign early.
type ForceCloseArgs struct {
	Campaign [32]byte
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the force close operation is signed over.
func (a ForceCloseArgs) Digest() [32]byte {
	return operationDigest("sale.force.close", a.Campaign, i64Bytes(a.Now))
}

// ForceClose marks the campaign closed. Purchases stop immediately; vesting
// and claims of already-purchased tokens continue unaffected.
func (e *Engine) ForceClose(args ForceCloseArgs) error {
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return e.reject(opForceClose, err)
	}
	if c.Status == sale.StatusClosed {
		return e.reject(opForceClose, sale.ErrAlreadyClosed)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return e.reject(opForceClose, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelCritical); err != nil {
		return e.reject(opForceClose, err)
	}
	c.Status = sale.StatusClosed
	c.ClosedAt = args.Now
	if err := e.state.CampaignPut(c); err != nil {
		return err
	}
	e.emit(events.Closed{Campaign: c.ID, ClosedAt: c.ClosedAt})
	e.log.Info("campaign closed", "campaign", c.Name, "closedAt", c.ClosedAt)
	return nil
}

// UpdateAdminKeysArgs rotates the campaign admin key set.
type UpdateAdminKeysArgs struct {
	Campaign [32]byte
	Keys     [][20]byte
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the key rotation is signed over.
func (a UpdateAdminKeysArgs) Digest() [32]byte {
	fields := make([][]byte, 0, len(a.Keys)+1)
	fields = append(fields, i64Bytes(a.Now))
	for _, key := range a.Keys {
		key := key
		fields = append(fields, key[:])
	}
	return operationDigest("sale.admin.keys.update", a.Campaign, fields...)
}

// UpdateAdminKeys replaces the admin key set. The rotation must be signed at
// critical level by the keys currently in force.
func (e *Engine) UpdateAdminKeys(args UpdateAdminKeysArgs) error {
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return e.reject(opUpdateAdmins, err)
	}
	if err := validateAdminKeys(args.Keys); err != nil {
		return e.reject(opUpdateAdmins, err)
	}
	current, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return e.reject(opUpdateAdmins, err)
	}
	if err := requireAdminSigners(current, args.Digest(), args.Auths, LevelCritical); err != nil {
		return e.reject(opUpdateAdmins, err)
	}
	next := &sale.AdminKeySet{Campaign: c.ID, Keys: append([][20]byte(nil), args.Keys...)}
	if err := e.state.AdminKeysPut(next); err != nil {
		return err
	}
	e.emit(events.AdminKeysUpdated{Campaign: c.ID, Keys: next.Keys})
	e.log.Info("admin keys rotated", "campaign", c.Name)
	return nil
}

// Campaign returns a copy of the stored campaign.
func (e *Engine) Campaign(id [32]byte) (*sale.Campaign, error) {
	c, err := e.state.CampaignGet(id)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Reserve returns a copy of the campaign reserve counters.
func (e *Engine) Reserve(campaign [32]byte) (*sale.Reserve, error) {
	r, err := e.state.ReserveGet(campaign)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}
