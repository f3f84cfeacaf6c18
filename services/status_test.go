package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"amazonas-backend/models"
)

func TestStatusFromGateway(t *testing.T) {
	cases := []struct {
		gateway string
		want    string
	}{
		{"APPROVED", models.StatusConfirmed},
		{"DECLINED", models.StatusCancelled},
		{"VOIDED", models.StatusCancelled},
		{"ERROR", models.StatusPaymentFailed},
		{"PENDING", models.StatusPending},
		{"SOMETHING_ELSE", models.StatusPending},
		{"", models.StatusPending},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromGateway(tc.gateway), "gateway status %q", tc.gateway)
	}
}

func TestValidTransition(t *testing.T) {
	// forward moves
	assert.True(t, ValidTransition(models.StatusPaymentPending, models.StatusConfirmed))
	assert.True(t, ValidTransition(models.StatusPaymentPending, models.StatusCancelled))
	assert.True(t, ValidTransition(models.StatusPaymentPending, models.StatusPending))
	assert.True(t, ValidTransition(models.StatusPending, models.StatusConfirmed))

	// re-applying the current status is always allowed
	assert.True(t, ValidTransition(models.StatusConfirmed, models.StatusConfirmed))
	assert.True(t, ValidTransition(models.StatusCancelled, models.StatusCancelled))

	// terminal states never move to a different status
	assert.False(t, ValidTransition(models.StatusConfirmed, models.StatusCancelled))
	assert.False(t, ValidTransition(models.StatusConfirmed, models.StatusPending))
	assert.False(t, ValidTransition(models.StatusCancelled, models.StatusConfirmed))
	assert.False(t, ValidTransition(models.StatusPaymentFailed, models.StatusConfirmed))
}
