package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory Transactor. Units of work run one at a time and
// write to a staged copy that replaces the committed state only on success,
// which gives the same guarantees the coordinator relies on from SERIALIZABLE.
type memStore struct {
	mu    sync.Mutex
	state *memState

	// failApplianceWrite, when set, is returned by every appliance status write.
	failApplianceWrite error
}

type memState struct {
	appliances map[string]domain.Appliance
	rentals    map[string]domain.Rental
	reviews    map[string]domain.Review
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		appliances: map[string]domain.Appliance{},
		rentals:    map[string]domain.Rental{},
		reviews:    map[string]domain.Review{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		appliances: make(map[string]domain.Appliance, len(s.appliances)),
		rentals:    make(map[string]domain.Rental, len(s.rentals)),
		reviews:    make(map[string]domain.Review, len(s.reviews)),
	}
	for k, v := range s.appliances {
		c.appliances[k] = v
	}
	for k, v := range s.rentals {
		c.rentals[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	return c
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	staged := m.state.clone()
	if err := fn(ctx, &memTx{store: m, state: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = staged
	return nil
}

// committed returns repositories reading the committed state outside any unit.
func (m *memStore) committed() *memTx {
	return &memTx{store: m, state: m.state, locked: true}
}

func (m *memStore) seedAppliance(a domain.Appliance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.appliances[a.ID] = a
}

func (m *memStore) appliance(id string) domain.Appliance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.appliances[id]
}

func (m *memStore) rental(id string) domain.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.rentals[id]
}

func (m *memStore) rentalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.rentals)
}

type memTx struct {
	store *memStore
	state *memState
	// locked marks a view over committed state used outside WithinTx.
	locked bool
}

func (t *memTx) Appliances() repository.ApplianceRepository { return &memApplianceRepo{t} }
func (t *memTx) Rentals() repository.RentalRepository       { return &memRentalRepo{t} }
func (t *memTx) Reviews() repository.ReviewRepository       { return &memReviewRepo{t} }

func (t *memTx) guard() func() {
	if !t.locked {
		return func() {}
	}
	t.store.mu.Lock()
	t.state = t.store.state
	return t.store.mu.Unlock
}

type memApplianceRepo struct{ tx *memTx }

func (r *memApplianceRepo) Create(_ context.Context, a *domain.Appliance) error {
	defer r.tx.guard()()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	r.tx.state.appliances[a.ID] = *a
	return nil
}

func (r *memApplianceRepo) GetByID(_ context.Context, id string) (*domain.Appliance, error) {
	defer r.tx.guard()()
	a, ok := r.tx.state.appliances[id]
	if !ok || a.DeletedOn != nil {
		return nil, fmt.Errorf("appliance %s: %w", id, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *memApplianceRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Appliance, error) {
	return r.GetByID(ctx, id)
}

func (r *memApplianceRepo) Update(_ context.Context, a *domain.Appliance) error {
	defer r.tx.guard()()
	cur, ok := r.tx.state.appliances[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = cur.Status
	r.tx.state.appliances[a.ID] = *a
	return nil
}

func (r *memApplianceRepo) UpdateStatus(_ context.Context, id string, expected, status domain.ApplianceStatus) error {
	defer r.tx.guard()()
	if err := r.tx.store.failApplianceWrite; err != nil {
		return err
	}
	a, ok := r.tx.state.appliances[id]
	if !ok || a.DeletedOn != nil {
		return fmt.Errorf("appliance %s: %w", id, domain.ErrNotFound)
	}
	if expected != "" && a.Status != expected {
		return fmt.Errorf("%w: appliance %s is %s", domain.ErrConflict, id, a.Status)
	}
	a.Status = status
	r.tx.state.appliances[id] = a
	return nil
}

func (r *memApplianceRepo) UpdateRating(_ context.Context, id string, rating float64, reviewCount int32) error {
	defer r.tx.guard()()
	a, ok := r.tx.state.appliances[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Rating, a.ReviewCount = rating, reviewCount
	r.tx.state.appliances[id] = a
	return nil
}

func (r *memApplianceRepo) Delete(_ context.Context, id string) error {
	defer r.tx.guard()()
	a, ok := r.tx.state.appliances[id]
	if !ok || a.DeletedOn != nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	a.DeletedOn = &now
	r.tx.state.appliances[id] = a
	return nil
}

func (r *memApplianceRepo) ListByProvider(_ context.Context, providerID string, _, _ int32) ([]domain.Appliance, int32, error) {
	defer r.tx.guard()()
	var out []domain.Appliance
	for _, a := range r.tx.state.appliances {
		if a.ProviderID == providerID && a.DeletedOn == nil {
			out = append(out, a)
		}
	}
	return out, int32(len(out)), nil
}

func (r *memApplianceRepo) Search(context.Context, domain.ApplianceFilter) ([]domain.ApplianceListing, int32, error) {
	return nil, 0, nil
}

func (r *memApplianceRepo) ListPopular(context.Context, int32) ([]domain.ApplianceListing, error) {
	return nil, nil
}

func (r *memApplianceRepo) ListFeatured(context.Context, int32) ([]domain.ApplianceListing, error) {
	return nil, nil
}

func (r *memApplianceRepo) ListBrands(context.Context) ([]string, error) {
	return nil, nil
}

type memRentalRepo struct{ tx *memTx }

func (r *memRentalRepo) Create(_ context.Context, rt *domain.Rental) error {
	defer r.tx.guard()()
	// Mirrors the partial unique indexes on holding rentals and payment references.
	for _, other := range r.tx.state.rentals {
		if other.ApplianceID == rt.ApplianceID && other.Status.HoldsAppliance() && rt.Status.HoldsAppliance() {
			return fmt.Errorf("%w: appliance already has an open rental", domain.ErrConflict)
		}
		if rt.PaymentReference != "" && other.PaymentReference == rt.PaymentReference {
			return fmt.Errorf("%w: payment reference already used by another rental", domain.ErrDuplicate)
		}
	}
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rt.CreatedOn, rt.UpdatedOn = now, now
	r.tx.state.rentals[rt.ID] = *rt
	return nil
}

func (r *memRentalRepo) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	defer r.tx.guard()()
	rt, ok := r.tx.state.rentals[id]
	if !ok {
		return nil, fmt.Errorf("rental %s: %w", id, domain.ErrNotFound)
	}
	return &rt, nil
}

func (r *memRentalRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Rental, error) {
	return r.GetByID(ctx, id)
}

func (r *memRentalRepo) Update(_ context.Context, rt *domain.Rental) error {
	defer r.tx.guard()()
	if _, ok := r.tx.state.rentals[rt.ID]; !ok {
		return fmt.Errorf("rental %s: %w", rt.ID, domain.ErrNotFound)
	}
	r.tx.state.rentals[rt.ID] = *rt
	return nil
}

func (r *memRentalRepo) CountHoldingByAppliance(_ context.Context, applianceID string) (int32, error) {
	defer r.tx.guard()()
	var n int32
	for _, rt := range r.tx.state.rentals {
		if rt.ApplianceID == applianceID && rt.Status.HoldsAppliance() {
			n++
		}
	}
	return n, nil
}

func (r *memRentalRepo) FindCompletedForReview(_ context.Context, userID, applianceID string) (*domain.Rental, error) {
	defer r.tx.guard()()
	for _, rt := range r.tx.state.rentals {
		if rt.UserID == userID && rt.ApplianceID == applianceID && rt.Status == domain.RentalStatusCompleted {
			return &rt, nil
		}
	}
	return nil, fmt.Errorf("completed rental for appliance %s: %w", applianceID, domain.ErrNotFound)
}

func (r *memRentalRepo) filter(keep func(domain.Rental) bool) []domain.Rental {
	defer r.tx.guard()()
	var out []domain.Rental
	for _, rt := range r.tx.state.rentals {
		if keep(rt) {
			out = append(out, rt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedOn.After(out[j].CreatedOn) })
	return out
}

func matchesStatus(rt domain.Rental, statuses []domain.RentalStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if rt.Status == st {
			return true
		}
	}
	return false
}

func (r *memRentalRepo) ListByRenter(_ context.Context, userID string, f domain.RentalFilter) ([]domain.Rental, int32, error) {
	out := r.filter(func(rt domain.Rental) bool { return rt.UserID == userID && matchesStatus(rt, f.Statuses) })
	return out, int32(len(out)), nil
}

func (r *memRentalRepo) ListByProvider(_ context.Context, providerID string, f domain.RentalFilter) ([]domain.Rental, int32, error) {
	out := r.filter(func(rt domain.Rental) bool { return rt.ProviderID == providerID && matchesStatus(rt, f.Statuses) })
	return out, int32(len(out)), nil
}

func (r *memRentalRepo) ListRecent(_ context.Context, limit int32) ([]domain.Rental, error) {
	out := r.filter(func(domain.Rental) bool { return true })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRentalRepo) ListEndingBetween(_ context.Context, from, to time.Time) ([]domain.Rental, error) {
	return r.filter(func(rt domain.Rental) bool {
		return (rt.Status == domain.RentalStatusApproved || rt.Status == domain.RentalStatusActive) &&
			!rt.EndDate.Before(from) && rt.EndDate.Before(to)
	}), nil
}

type memReviewRepo struct{ tx *memTx }

func (r *memReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	defer r.tx.guard()()
	for _, other := range r.tx.state.reviews {
		if other.UserID == rv.UserID && other.ApplianceID == rv.ApplianceID {
			return fmt.Errorf("%w: reviews_user_appliance_key", domain.ErrDuplicate)
		}
	}
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedOn = time.Now().UTC()
	r.tx.state.reviews[rv.ID] = *rv
	return nil
}

func (r *memReviewRepo) ListByAppliance(_ context.Context, applianceID string, _, _ int32) ([]domain.Review, int32, error) {
	defer r.tx.guard()()
	var out []domain.Review
	for _, rv := range r.tx.state.reviews {
		if rv.ApplianceID == applianceID {
			out = append(out, rv)
		}
	}
	return out, int32(len(out)), nil
}

func (r *memReviewRepo) RatingSummary(_ context.Context, applianceID string) (float64, int32, error) {
	defer r.tx.guard()()
	var sum, n int32
	for _, rv := range r.tx.state.reviews {
		if rv.ApplianceID == applianceID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}
