package sale

import "errors"

// Validation failures: structural or authorization defects. Always fatal to
// the operation, surfaced verbatim, never applied partially.
var (
	ErrWrongOwner       = errors.New("sale: record not owned by this program")
	ErrWrongType        = errors.New("sale: record kind mismatch")
	ErrMissingSignature = errors.New("sale: required signature missing")
	ErrAddressMismatch  = errors.New("sale: derived record address mismatch")
	ErrUnauthorized     = errors.New("sale: caller not authorized")
)

// Policy rejections: expected business-rule failures. The caller decides
// whether to resubmit with different parameters; nothing is retried here.
var (
	ErrAlreadyInitialized     = errors.New("sale: campaign already initialized")
	ErrAlreadyLaunched        = errors.New("sale: campaign already launched")
	ErrAlreadyClosed          = errors.New("sale: campaign already closed")
	ErrNotLaunched            = errors.New("sale: campaign not launched")
	ErrNotFound               = errors.New("sale: record not found")
	ErrPhaseMismatch          = errors.New("sale: no active purchase phase")
	ErrCapExceeded            = errors.New("sale: cap exceeded")
	ErrZeroAmount             = errors.New("sale: amount must be positive")
	ErrInvalidAmount          = errors.New("sale: amount not coverable")
	ErrNothingToClaim         = errors.New("sale: nothing to claim")
	ErrUnknownRound           = errors.New("sale: unknown investment round")
	ErrInvalidPhaseSchedule   = errors.New("sale: invalid phase schedule")
	ErrInvalidVestingSchedule = errors.New("sale: invalid vesting schedule")
	ErrDuplicateAdminKey      = errors.New("sale: duplicate admin key")
	ErrInvalidLaunchTime      = errors.New("sale: invalid launch time")
	ErrQueuedTransferNotFound = errors.New("sale: queued transfer not found")
	ErrQueuedTransferNotReady = errors.New("sale: queued transfer not ready")
)

// Arithmetic violations: malicious input or a modeling bug. Always fatal and
// logged as severe, never silently clamped.
var (
	ErrArithmeticOverflow = errors.New("sale: arithmetic overflow")
	ErrReserveExhausted   = errors.New("sale: reserve exhausted")
)

// ErrorClass partitions failures for reporting purposes.
type ErrorClass uint8

const (
	ClassInternal ErrorClass = iota
	ClassValidation
	ClassPolicy
	ClassArithmetic
)

func (c ErrorClass) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassPolicy:
		return "policy"
	case ClassArithmetic:
		return "arithmetic"
	default:
		return "internal"
	}
}

var (
	validationErrors = []error{
		ErrWrongOwner, ErrWrongType, ErrMissingSignature, ErrAddressMismatch, ErrUnauthorized,
	}
	policyErrors = []error{
		ErrAlreadyInitialized, ErrAlreadyLaunched, ErrAlreadyClosed, ErrNotLaunched,
		ErrNotFound, ErrPhaseMismatch, ErrCapExceeded, ErrZeroAmount, ErrInvalidAmount,
		ErrNothingToClaim, ErrUnknownRound, ErrInvalidPhaseSchedule, ErrInvalidVestingSchedule,
		ErrDuplicateAdminKey, ErrInvalidLaunchTime, ErrQueuedTransferNotFound,
		ErrQueuedTransferNotReady,
	}
	arithmeticErrors = []error{ErrArithmeticOverflow, ErrReserveExhausted}
)

// Classify reports which class of the error taxonomy an operation failure
// belongs to.
func Classify(err error) ErrorClass {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ClassValidation
		}
	}
	for _, target := range policyErrors {
		if errors.Is(err, target) {
			return ClassPolicy
		}
	}
	for _, target := range arithmeticErrors {
		if errors.Is(err, target) {
			return ClassArithmetic
		}
	}
	return ClassInternal
}
