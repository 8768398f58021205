package booking

import (
	"context"
	"sync"
	"time"

	bookingRepo "servebook/database/repository/booking"
	"servebook/models"
	"servebook/utils"
)

// fakeRepo is an in-memory Repository. CreateIfSlotFree serializes the
// conflict re-check and insert under one mutex, mirroring the store
// transaction, so concurrency tests exercise the real invariant.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking

	getErr    error
	listErr   error
	createErr error
	updateErr error
	watchErr  error

	consumerUpdates chan []models.Booking
	consumerErrs    chan error
	providerUpdates chan []models.Booking
	providerErrs    chan error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:        make(map[string]models.Booking),
		consumerUpdates: make(chan []models.Booking, 8),
		consumerErrs:    make(chan error, 1),
		providerUpdates: make(chan []models.Booking, 8),
		providerErrs:    make(chan error, 1),
	}
}

func (r *fakeRepo) seed(b models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

func (r *fakeRepo) get(id string) (models.Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	return b, ok
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	out := b
	return &out, nil
}

func (r *fakeRepo) ListByProviderAndDates(ctx context.Context, providerID string, dateKeys []string) ([]models.Booking, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	keys := make(map[string]struct{}, len(dateKeys))
	for _, k := range dateKeys {
		keys[k] = struct{}{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID != providerID {
			continue
		}
		if _, ok := keys[b.Date]; !ok {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeRepo) ListByConsumer(ctx context.Context, consumerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ConsumerID == consumerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateIfSlotFree(ctx context.Context, booking *models.Booking, dateKeys []string) error {
	if r.createErr != nil {
		return r.createErr
	}
	keys := make(map[string]struct{}, len(dateKeys))
	for _, k := range dateKeys {
		keys[k] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ProviderID != booking.ProviderID {
			continue
		}
		if _, ok := keys[b.Date]; !ok {
			continue
		}
		if !b.Status.HoldsSlot() {
			continue
		}
		if utils.Overlaps(b.StartTime, b.EndTime, booking.StartTime, booking.EndTime) {
			return bookingRepo.ErrSlotTaken
		}
	}

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeRepo) UpdateStatusIf(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) (*models.Booking, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStatusChanged
	}
	b.Status = to
	b.UpdatedAt = at
	r.bookings[id] = b
	out := b
	return &out, nil
}

func (r *fakeRepo) WatchConsumer(ctx context.Context, consumerID string) (*bookingRepo.Subscription, error) {
	if r.watchErr != nil {
		return nil, r.watchErr
	}
	return &bookingRepo.Subscription{Updates: r.consumerUpdates, Errs: r.consumerErrs}, nil
}

func (r *fakeRepo) WatchProvider(ctx context.Context, providerID string) (*bookingRepo.Subscription, error) {
	if r.watchErr != nil {
		return nil, r.watchErr
	}
	return &bookingRepo.Subscription{Updates: r.providerUpdates, Errs: r.providerErrs}, nil
}

type enqueueCall struct {
	userID       string
	templateType string
	data         map[string]string
}

// fakeNotifier records enqueues and can be told to fail.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []enqueueCall
	err   error
}

func (n *fakeNotifier) Enqueue(ctx context.Context, userID, templateType string, data map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, enqueueCall{userID: userID, templateType: templateType, data: data})
	return nil
}

func (n *fakeNotifier) recorded() []enqueueCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]enqueueCall, len(n.calls))
	copy(out, n.calls)
	return out
}

func newTestService(repo *fakeRepo, notifier *fakeNotifier) *DefaultBookingService {
	return &DefaultBookingService{
		Repo:            repo,
		Detector:        &ConflictDetector{Repo: repo, Location: time.UTC},
		NotificationSvc: notifier,
		Location:        time.UTC,
	}
}

func validInput(start, end time.Time) models.CreateBookingInput {
	return models.CreateBookingInput{
		ServiceID:     "svc-1",
		ConsumerID:    "consumer-1",
		ProviderID:    "provider-1",
		CategoryID:    "cat-1",
		CategoryName:  "Deep Clean",
		CategoryPrice: 40,
		TotalPrice:    40,
		StartTime:     start,
		EndTime:       end,
	}
}
