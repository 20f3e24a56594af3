package ico

import (
	"github.com/google/uuid"

	"icoledger/core/events"
	"icoledger/core/sale"
)

// QueueReserveTransferArgs schedules a transfer out of the unsold reserve.
type QueueReserveTransferArgs struct {
	Campaign  [32]byte
	Recipient [20]byte
	Amount    uint64
	Now       int64
	Auths     []Authorization
}

// Digest returns the bytes the queue operation is signed over.
func (a QueueReserveTransferArgs) Digest() [32]byte {
	return operationDigest("sale.reserve.transfer.queue", a.Campaign,
		a.Recipient[:], u64Bytes(a.Amount), i64Bytes(a.Now))
}

// QueueReserveTransfer puts an administrative transfer from the unsold
// reserve into the timelock queue and returns its ID. The amount is checked
// against the unsold pool both here and again at execution, since purchases
// between the two can shrink it.
func (e *Engine) QueueReserveTransfer(args QueueReserveTransferArgs) (string, error) {
	if args.Amount == 0 {
		return "", e.reject(opQueueTransfer, sale.ErrZeroAmount)
	}
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return "", e.reject(opQueueTransfer, err)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return "", e.reject(opQueueTransfer, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelCritical); err != nil {
		return "", e.reject(opQueueTransfer, err)
	}
	reserve, err := e.state.ReserveGet(c.ID)
	if err != nil {
		return "", e.reject(opQueueTransfer, err)
	}
	if args.Amount > reserve.Unsold() {
		return "", e.reject(opQueueTransfer, sale.ErrReserveExhausted)
	}
	queue, err := e.state.TimelockGet(c.ID)
	if err != nil {
		return "", e.reject(opQueueTransfer, err)
	}
	pending := sale.PendingTransfer{
		ID:        uuid.NewString(),
		Recipient: args.Recipient,
		Amount:    args.Amount,
		QueuedAt:  args.Now,
	}
	queue.Campaign = c.ID
	queue.Transfers = append(queue.Transfers, pending)
	if err := e.state.TimelockPut(queue); err != nil {
		return "", err
	}
	e.emit(events.ReserveTransferQueued{
		Campaign:  c.ID,
		ID:        pending.ID,
		Recipient: pending.Recipient,
		Amount:    pending.Amount,
		QueuedAt:  pending.QueuedAt,
	})
	e.log.Info("reserve transfer queued",
		"campaign", c.Name,
		"id", pending.ID,
		"amount", pending.Amount,
	)
	return pending.ID, nil
}

// ExecuteReserveTransferArgs executes a queued transfer after its timelock.
type ExecuteReserveTransferArgs struct {
	Campaign [32]byte
	ID       string
	Now      int64
	Auths    []Authorization
}

// Digest returns the bytes the execute operation is signed over.
func (a ExecuteReserveTransferArgs) Digest() [32]byte {
	return operationDigest("sale.reserve.transfer.execute", a.Campaign,
		strBytes(a.ID), i64Bytes(a.Now))
}

// ExecuteReserveTransfer removes the queued transfer, debits the unsold
// reserve and credits the recipient's token account. The transfer must have
// aged past the timelock delay.
func (e *Engine) ExecuteReserveTransfer(args ExecuteReserveTransferArgs) error {
	c, err := e.state.CampaignGet(args.Campaign)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	keys, err := e.state.AdminKeysGet(c.ID)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	if err := requireAdminSigners(keys, args.Digest(), args.Auths, LevelCritical); err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	queue, err := e.state.TimelockGet(c.ID)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	index := -1
	for i := range queue.Transfers {
		if queue.Transfers[i].ID == args.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return e.reject(opExecuteTransfer, sale.ErrQueuedTransferNotFound)
	}
	pending := queue.Transfers[index]
	ready, err := addI64(pending.QueuedAt, e.timelockDelay)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	if args.Now < ready {
		return e.reject(opExecuteTransfer, sale.ErrQueuedTransferNotReady)
	}
	reserve, err := e.state.ReserveGet(c.ID)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	if pending.Amount > reserve.Unsold() {
		return e.reject(opExecuteTransfer, sale.ErrReserveExhausted)
	}
	transferred, err := addU64(reserve.Transferred, pending.Amount)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}
	account, err := e.state.AccountGet(pending.Recipient)
	if err != nil {
		return e.reject(opExecuteTransfer, err)
	}

	reserve.Transferred = transferred
	account.Credit(pending.Amount)
	queue.Transfers = append(queue.Transfers[:index], queue.Transfers[index+1:]...)

	if err := e.state.TimelockPut(queue); err != nil {
		return err
	}
	if err := e.state.ReservePut(reserve); err != nil {
		return err
	}
	if err := e.state.AccountPut(pending.Recipient, account); err != nil {
		return err
	}
	e.metrics.SetReserve(reserve.Sold, reserve.Delivered, reserve.Transferred)
	e.emit(events.ReserveTransferExecuted{
		Campaign:  c.ID,
		ID:        pending.ID,
		Recipient: pending.Recipient,
		Amount:    pending.Amount,
		Time:      args.Now,
	})
	e.log.Info("reserve transfer executed",
		"campaign", c.Name,
		"id", pending.ID,
		"amount", pending.Amount,
	)
	return nil
}
