package domain

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusNotShipped       OrderStatus = "Not Shipped"
	OrderStatusShipping         OrderStatus = "Shipping"
	OrderStatusDelivered        OrderStatus = "Delivered"
	OrderStatusProcessingRefund OrderStatus = "Processing refund"
	OrderStatusRefundSuccess    OrderStatus = "Refund Success"
)

// IsValid checks if the order status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNotShipped,
		OrderStatusShipping,
		OrderStatusDelivered,
		OrderStatusProcessingRefund,
		OrderStatusRefundSuccess:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid. The refund
// branch is reachable from every shipping-branch state; delivery may
// skip the Shipping step.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusNotShipped:
		return newStatus == OrderStatusShipping ||
			newStatus == OrderStatusDelivered ||
			newStatus == OrderStatusProcessingRefund
	case OrderStatusShipping:
		return newStatus == OrderStatusDelivered ||
			newStatus == OrderStatusProcessingRefund
	case OrderStatusDelivered:
		return newStatus == OrderStatusProcessingRefund
	case OrderStatusProcessingRefund:
		return newStatus == OrderStatusRefundSuccess
	case OrderStatusRefundSuccess:
		return false // terminal
	default:
		return false
	}
}

// WithdrawStatus represents the status of a withdrawal request
type WithdrawStatus string

const (
	WithdrawStatusProcessing WithdrawStatus = "Processing"
	WithdrawStatusSucceeded  WithdrawStatus = "Succeeded"
	WithdrawStatusRejected   WithdrawStatus = "Rejected"
)

// IsValid checks if the withdraw status is a known value
func (s WithdrawStatus) IsValid() bool {
	switch s {
	case WithdrawStatusProcessing, WithdrawStatusSucceeded, WithdrawStatusRejected:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a withdrawal resolution is valid. A
// request is resolved exactly once; Succeeded and Rejected are
// terminal.
func (s WithdrawStatus) CanTransitionTo(newStatus WithdrawStatus) bool {
	switch s {
	case WithdrawStatusProcessing:
		return newStatus == WithdrawStatusSucceeded ||
			newStatus == WithdrawStatusRejected
	default:
		return false
	}
}
