package domain

import (
	"fmt"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "PENDING"
	RentalStatusApproved  RentalStatus = "APPROVED"
	RentalStatusRejected  RentalStatus = "REJECTED"
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

// AllRentalStatuses lists every status in lifecycle order.
var AllRentalStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusApproved,
	RentalStatusRejected,
	RentalStatusActive,
	RentalStatusCompleted,
	RentalStatusCancelled,
}

func ParseRentalStatus(s string) (RentalStatus, error) {
	for _, st := range AllRentalStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", Validationf("unknown rental status %q", s)
}

// IsTerminal reports whether no further transition is permitted.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusRejected, RentalStatusCompleted, RentalStatusCancelled:
		return true
	}
	return false
}

// HoldsAppliance reports whether a rental in this status keeps its appliance RENTED.
// The appliance is locked at creation, so PENDING holds it too.
func (s RentalStatus) HoldsAppliance() bool {
	switch s {
	case RentalStatusPending, RentalStatusApproved, RentalStatusActive:
		return true
	}
	return false
}

// HoldingRentalStatuses are the statuses for which HoldsAppliance is true.
var HoldingRentalStatuses = []RentalStatus{RentalStatusPending, RentalStatusApproved, RentalStatusActive}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodOnline         PaymentMethod = "ONLINE"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCashOnDelivery || m == PaymentMethodOnline
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

func (a Address) IsZero() bool {
	return a.Street == "" && a.City == "" && a.State == "" && a.ZipCode == ""
}

type Rental struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	ApplianceID      string        `json:"appliance_id"`
	ProviderID       string        `json:"provider_id"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	Status           RentalStatus  `json:"status"`
	TotalAmount      int64         `json:"total_amount"`
	Deposit          int64         `json:"deposit"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentReference string        `json:"payment_reference,omitempty"`
	DeliveryAddress  Address       `json:"delivery_address"`
	DeliveryTime     string        `json:"delivery_time"`
	HasReview        bool          `json:"has_review"`
	CreatedOn        time.Time     `json:"created_on"`
	UpdatedOn        time.Time     `json:"updated_on"`
}

// TransitionActor is the party driving a status change on a rental.
type TransitionActor string

const (
	TransitionActorProvider TransitionActor = "PROVIDER"
	TransitionActorRenter   TransitionActor = "RENTER"
)

// Transition is a validated status change and its effect on the appliance.
// ApplianceStatus is empty when the appliance is left untouched.
type Transition struct {
	From            RentalStatus
	To              RentalStatus
	Actor           TransitionActor
	ApplianceStatus ApplianceStatus
}

type transitionKey struct {
	from  RentalStatus
	to    RentalStatus
	actor TransitionActor
}

var rentalTransitions = map[transitionKey]ApplianceStatus{
	{RentalStatusPending, RentalStatusApproved, TransitionActorProvider}:   ApplianceStatusRented,
	{RentalStatusPending, RentalStatusRejected, TransitionActorProvider}:   ApplianceStatusAvailable,
	{RentalStatusApproved, RentalStatusActive, TransitionActorProvider}:    "",
	{RentalStatusApproved, RentalStatusCancelled, TransitionActorProvider}: ApplianceStatusAvailable,
	{RentalStatusActive, RentalStatusCompleted, TransitionActorProvider}:   ApplianceStatusAvailable,
	{RentalStatusPending, RentalStatusCancelled, TransitionActorRenter}:    ApplianceStatusAvailable,
}

// PlanTransition validates a status change against the lifecycle table.
// A renter asking to cancel outside PENDING gets ErrNotCancellable; every other
// pair outside the table gets a *TransitionError.
func PlanTransition(from, to RentalStatus, actor TransitionActor) (Transition, error) {
	effect, ok := rentalTransitions[transitionKey{from, to, actor}]
	if !ok {
		if actor == TransitionActorRenter && to == RentalStatusCancelled {
			return Transition{}, fmt.Errorf("%w: rental is %s", ErrNotCancellable, from)
		}
		return Transition{}, &TransitionError{From: from, To: to}
	}
	return Transition{From: from, To: to, Actor: actor, ApplianceStatus: effect}, nil
}

// Apply moves the rental into the transition's target status.
func (r *Rental) Apply(t Transition, now time.Time) {
	r.Status = t.To
	if (t.To == RentalStatusCancelled || t.To == RentalStatusRejected) && r.PaymentStatus == PaymentStatusPaid {
		r.PaymentStatus = PaymentStatusRefunded
	}
	r.UpdatedOn = now
}

// RentalFilter narrows renter and provider rental lists.
type RentalFilter struct {
	Statuses []RentalStatus
	Page     int32
	PageSize int32
}

// CreateRentalRequest carries a renter's booking.
type CreateRentalRequest struct {
	ApplianceID      string
	StartDate        string
	EndDate          string
	PaymentMethod    PaymentMethod
	PaymentReference string
	DeliveryAddress  Address
	DeliveryTime     string
}
