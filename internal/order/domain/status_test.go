package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusShipping, StatusDelivered, StatusPaid, StatusCancelled} {
		assert.True(t, s.Valid(), "status %s should be valid", s)
	}
	assert.False(t, Status("refunded").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipping, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipping, true},
		{StatusConfirmed, StatusPaid, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipping, StatusDelivered, true},
		{StatusShipping, StatusCancelled, true},
		{StatusShipping, StatusPaid, false},
		{StatusDelivered, StatusPaid, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusPaid, StatusCancelled, false},
		{StatusPaid, StatusDelivered, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
