package ticket

// DeliveryStatus tracks notification bookkeeping. Transitions are monotonic:
// pending -> sent, never back.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
)

func (s DeliveryStatus) Valid() bool {
	return s == DeliveryPending || s == DeliverySent
}

// RedemptionStatus tracks door check-in. Transitions are monotonic:
// unused -> used, never back.
type RedemptionStatus string

const (
	RedemptionUnused RedemptionStatus = "unused"
	RedemptionUsed   RedemptionStatus = "used"
)

func (s RedemptionStatus) Valid() bool {
	return s == RedemptionUnused || s == RedemptionUsed
}
