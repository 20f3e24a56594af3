package sale

// RecordKind tags every persisted record so the validator can reject a record
// substituted for one of a different type.
type RecordKind uint8

const (
	KindUnknown RecordKind = iota
	KindCampaign
	KindInvestorLedger
	KindReserve
	KindAdminKeySet
	KindTimelockQueue
	KindAccount
)

func (k RecordKind) Valid() bool {
	switch k {
	case KindCampaign, KindInvestorLedger, KindReserve, KindAdminKeySet, KindTimelockQueue, KindAccount:
		return true
	default:
		return false
	}
}

func (k RecordKind) String() string {
	switch k {
	case KindCampaign:
		return "campaign"
	case KindInvestorLedger:
		return "ledger"
	case KindReserve:
		return "reserve"
	case KindAdminKeySet:
		return "adminkeys"
	case KindTimelockQueue:
		return "timelock"
	case KindAccount:
		return "account"
	default:
		return "unknown"
	}
}

// CampaignStatus is the explicit lifecycle state of a campaign. The active
// sale phase is never stored; it is derived from the operation timestamp.
type CampaignStatus uint8

const (
	StatusUnknown CampaignStatus = iota
	StatusActive
	StatusClosed
)

func (s CampaignStatus) Valid() bool {
	switch s {
	case StatusActive, StatusClosed:
		return true
	default:
		return false
	}
}

func (s CampaignStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// VestingStartPolicy selects when an investor's vesting clock starts. The
// policy is fixed at campaign creation and never changes afterwards.
type VestingStartPolicy uint8

const (
	// VestingStartCampaign runs every schedule from the campaign launch
	// timestamp.
	VestingStartCampaign VestingStartPolicy = iota + 1
	// VestingStartPurchase runs each investor's schedules from their first
	// purchase timestamp.
	VestingStartPurchase
)

func (p VestingStartPolicy) Valid() bool {
	switch p {
	case VestingStartCampaign, VestingStartPurchase:
		return true
	default:
		return false
	}
}

func (p VestingStartPolicy) String() string {
	switch p {
	case VestingStartCampaign:
		return "campaign"
	case VestingStartPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}
