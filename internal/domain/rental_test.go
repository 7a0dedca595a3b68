package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTransition_AllowedPairs(t *testing.T) {
	tests := []struct {
		from   RentalStatus
		to     RentalStatus
		actor  TransitionActor
		effect ApplianceStatus
	}{
		{RentalStatusPending, RentalStatusApproved, TransitionActorProvider, ApplianceStatusRented},
		{RentalStatusPending, RentalStatusRejected, TransitionActorProvider, ApplianceStatusAvailable},
		{RentalStatusApproved, RentalStatusActive, TransitionActorProvider, ""},
		{RentalStatusApproved, RentalStatusCancelled, TransitionActorProvider, ApplianceStatusAvailable},
		{RentalStatusActive, RentalStatusCompleted, TransitionActorProvider, ApplianceStatusAvailable},
		{RentalStatusPending, RentalStatusCancelled, TransitionActorRenter, ApplianceStatusAvailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			tr, err := PlanTransition(tt.from, tt.to, tt.actor)
			require.NoError(t, err)
			assert.Equal(t, tt.effect, tr.ApplianceStatus)
			assert.Equal(t, tt.to, tr.To)
		})
	}
}

func TestPlanTransition_Closure(t *testing.T) {
	allowed := map[transitionKey]bool{}
	for k := range rentalTransitions {
		allowed[k] = true
	}

	for _, actor := range []TransitionActor{TransitionActorProvider, TransitionActorRenter} {
		for _, from := range AllRentalStatuses {
			for _, to := range AllRentalStatuses {
				if allowed[transitionKey{from, to, actor}] {
					continue
				}
				_, err := PlanTransition(from, to, actor)
				require.Error(t, err, "%s %s->%s", actor, from, to)

				if actor == TransitionActorRenter && to == RentalStatusCancelled {
					assert.ErrorIs(t, err, ErrNotCancellable)
					continue
				}
				assert.ErrorIs(t, err, ErrInvalidTransition)
				var te *TransitionError
				require.True(t, errors.As(err, &te))
				assert.Equal(t, from, te.From)
				assert.Equal(t, to, te.To)
			}
		}
	}
}

func TestPlanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []RentalStatus{RentalStatusCompleted, RentalStatusRejected, RentalStatusCancelled} {
		assert.True(t, from.IsTerminal())
		for _, to := range AllRentalStatuses {
			for _, actor := range []TransitionActor{TransitionActorProvider, TransitionActorRenter} {
				_, err := PlanTransition(from, to, actor)
				assert.Error(t, err)
			}
		}
	}
}

func TestRental_Apply(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Cancel refunds paid rental", func(t *testing.T) {
		r := &Rental{Status: RentalStatusPending, PaymentStatus: PaymentStatusPaid}
		tr, err := PlanTransition(RentalStatusPending, RentalStatusCancelled, TransitionActorRenter)
		require.NoError(t, err)
		r.Apply(tr, now)
		assert.Equal(t, RentalStatusCancelled, r.Status)
		assert.Equal(t, PaymentStatusRefunded, r.PaymentStatus)
		assert.Equal(t, now, r.UpdatedOn)
	})

	t.Run("Cancel leaves unpaid rental pending", func(t *testing.T) {
		r := &Rental{Status: RentalStatusPending, PaymentStatus: PaymentStatusPending}
		tr, _ := PlanTransition(RentalStatusPending, RentalStatusCancelled, TransitionActorRenter)
		r.Apply(tr, now)
		assert.Equal(t, PaymentStatusPending, r.PaymentStatus)
	})

	t.Run("Approve keeps payment", func(t *testing.T) {
		r := &Rental{Status: RentalStatusPending, PaymentStatus: PaymentStatusPaid}
		tr, _ := PlanTransition(RentalStatusPending, RentalStatusApproved, TransitionActorProvider)
		r.Apply(tr, now)
		assert.Equal(t, RentalStatusApproved, r.Status)
		assert.Equal(t, PaymentStatusPaid, r.PaymentStatus)
	})
}

func TestParseRentalStatus(t *testing.T) {
	st, err := ParseRentalStatus("ACTIVE")
	assert.NoError(t, err)
	assert.Equal(t, RentalStatusActive, st)

	_, err = ParseRentalStatus("OVERDUE")
	assert.ErrorIs(t, err, ErrValidation)
}
