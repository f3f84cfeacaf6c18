package services

import "amazonas-backend/models"

// Gateway status vocabulary reported by Wompi.
const (
	GatewayStatusApproved = "APPROVED"
	GatewayStatusDeclined = "DECLINED"
	GatewayStatusVoided   = "VOIDED"
	GatewayStatusError    = "ERROR"
	GatewayStatusPending  = "PENDING"
)

// StatusFromGateway maps the gateway's reported status to the booking status.
// Unrecognized statuses map to pending.
func StatusFromGateway(gatewayStatus string) string {
	switch gatewayStatus {
	case GatewayStatusApproved:
		return models.StatusConfirmed
	case GatewayStatusDeclined, GatewayStatusVoided:
		return models.StatusCancelled
	case GatewayStatusError:
		return models.StatusPaymentFailed
	case GatewayStatusPending:
		return models.StatusPending
	default:
		return models.StatusPending
	}
}

// ValidTransition reports whether a booking may move from one status to
// another. Re-applying the current status is always allowed so that webhook
// redeliveries stay idempotent; leaving a terminal status is not.
func ValidTransition(from, to string) bool {
	if from == to {
		return true
	}
	return !models.IsTerminal(from)
}
