package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/internal/core/tracking"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubShipmentRepo struct {
	byID       map[string]*domain.Shipment
	nextID     int
	createErr  error // if set, Create and List return this error
	lastFilter ports.ListShipmentsFilter
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{byID: make(map[string]*domain.Shipment)}
}

func cloneShipment(s *domain.Shipment) *domain.Shipment {
	clone := *s
	clone.TransitStops = append([]domain.TransitStop(nil), s.TransitStops...)
	return &clone
}

func (r *stubShipmentRepo) Create(_ context.Context, s *domain.Shipment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	s.ID = fmt.Sprintf("ship-%d", r.nextID)
	r.byID[s.ID] = cloneShipment(s)
	return nil
}

func (r *stubShipmentRepo) FindByID(_ context.Context, id string) (*domain.Shipment, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	return cloneShipment(s), nil
}

func (r *stubShipmentRepo) FindByTrackingNumber(_ context.Context, trackingNumber string) (*domain.Shipment, error) {
	for _, s := range r.byID {
		if s.TrackingNumber == trackingNumber {
			return cloneShipment(s), nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *stubShipmentRepo) FindByIdempotencyKey(_ context.Context, key string) (*domain.Shipment, error) {
	for _, s := range r.byID {
		if s.IdempotencyKey == key {
			return cloneShipment(s), nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *stubShipmentRepo) Update(_ context.Context, s *domain.Shipment) error {
	if _, ok := r.byID[s.ID]; !ok {
		return domain.ErrShipmentNotFound
	}
	r.byID[s.ID] = cloneShipment(s)
	return nil
}

func (r *stubShipmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrShipmentNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubShipmentRepo) List(_ context.Context, f ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	r.lastFilter = f
	if r.createErr != nil {
		return nil, 0, r.createErr
	}

	var matched []*domain.Shipment
	for _, s := range r.byID {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		if !f.DateFrom.IsZero() && s.BookingDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && s.BookingDate.After(f.DateTo) {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(s.TrackingNumber), q) &&
				!strings.Contains(strings.ToLower(s.Consignor.Name), q) &&
				!strings.Contains(strings.ToLower(s.Consignee.Name), q) {
				continue
			}
		}
		matched = append(matched, cloneShipment(s))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].BookingDate.After(matched[j].BookingDate) })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Shipment{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day0.Add(time.Duration(h) * time.Hour) }

func minimalInput() ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		ShipmentInput: ports.ShipmentInput{
			Consignor:   domain.Party{Name: "Ravi Kumar", Phone: "+91 98100 00001"},
			Consignee:   domain.Party{Name: "Meera Shah", Phone: "+91 98200 00002"},
			Origin:      "Delhi",
			Destination: "Mumbai",
			Description: "2BHK household goods",
			BookingDate: day0,
			TransitStops: []ports.TransitStopInput{
				{Location: "Delhi", ExpectedArrival: at(0), ExpectedDeparture: at(2)},
				{Location: "Jaipur", ExpectedArrival: at(10), ExpectedDeparture: at(12)},
				{Location: "Mumbai", ExpectedArrival: at(30), ExpectedDeparture: at(31)},
			},
		},
	}
}

func newShipmentSvc(repo *stubShipmentRepo, now time.Time) *ShipmentService {
	return NewShipmentService(repo, discardLogger).WithClock(func() time.Time { return now })
}

// ---------------------------------------------------------------------------
// CreateShipment tests
// ---------------------------------------------------------------------------

func TestShipmentService_Create_Success(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(-1))

	result, err := svc.CreateShipment(context.Background(), minimalInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := result.Shipment
	if !strings.HasPrefix(s.TrackingNumber, "MVR-") || len(s.TrackingNumber) != 12 {
		t.Errorf("tracking number format wrong: %s", s.TrackingNumber)
	}
	if s.Status != domain.StatusBooked {
		t.Errorf("expected status %q, got %q", domain.StatusBooked, s.Status)
	}
	if result.AlreadyExisted {
		t.Error("expected AlreadyExisted=false for new shipment")
	}
	if !s.CreatedAt.Equal(at(-1)) {
		t.Errorf("CreatedAt must come from the clock, got %v", s.CreatedAt)
	}
	if len(s.TransitStops) != 3 || s.TransitStops[0].Status != domain.StopScheduled {
		t.Errorf("expected 3 scheduled stops, got %+v", s.TransitStops)
	}
	if s.ID == "" {
		t.Error("expected repository to assign an ID")
	}
}

func TestShipmentService_Create_DefaultsBookingDateToNow(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(5))

	in := minimalInput()
	in.BookingDate = time.Time{}
	result, err := svc.CreateShipment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Shipment.BookingDate.Equal(at(5)) {
		t.Errorf("expected booking date %v, got %v", at(5), result.Shipment.BookingDate)
	}
}

func TestShipmentService_Create_ParsesStopStatusCaseInsensitively(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	in := minimalInput()
	in.TransitStops[0].Status = " Departed "
	in.TransitStops[1].Status = "ARRIVED"
	result, err := svc.CreateShipment(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Shipment.TransitStops[0].Status != domain.StopDeparted || result.Shipment.TransitStops[1].Status != domain.StopArrived {
		t.Errorf("unexpected parsed statuses: %+v", result.Shipment.TransitStops)
	}
}

func TestShipmentService_Create_RejectsInvalidStops(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ports.CreateShipmentInput)
		want   error
	}{
		{"unknown status", func(in *ports.CreateShipmentInput) { in.TransitStops[1].Status = "teleported" }, domain.ErrInvalidStopStatus},
		{"empty location", func(in *ports.CreateShipmentInput) { in.TransitStops[0].Location = "  " }, domain.ErrInvalidTransitStop},
		{"departure before arrival", func(in *ports.CreateShipmentInput) {
			in.TransitStops[2].ExpectedDeparture = at(29)
		}, domain.ErrInvalidTransitStop},
		{"missing arrival", func(in *ports.CreateShipmentInput) { in.TransitStops[0].ExpectedArrival = time.Time{} }, domain.ErrInvalidTransitStop},
		{"unknown shipment status", func(in *ports.CreateShipmentInput) { in.Status = "lost" }, domain.ErrInvalidShipmentStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubShipmentRepo()
			svc := newShipmentSvc(repo, at(0))
			in := minimalInput()
			tc.mutate(&in)

			_, err := svc.CreateShipment(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(repo.byID) != 0 {
				t.Errorf("nothing must be stored on validation failure")
			}
		})
	}
}

func TestShipmentService_Create_RepoError(t *testing.T) {
	repo := newStubShipmentRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newShipmentSvc(repo, at(0))

	if _, err := svc.CreateShipment(context.Background(), minimalInput()); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Idempotency tests
// ---------------------------------------------------------------------------

func TestShipmentService_Create_IdempotencyReplay(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	input := minimalInput()
	input.IdempotencyKey = "key-abc-123"

	first, err := svc.CreateShipment(context.Background(), input)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := svc.CreateShipment(context.Background(), input)
	if err != nil {
		t.Fatalf("second create (replay) failed: %v", err)
	}

	if second.Shipment.TrackingNumber != first.Shipment.TrackingNumber {
		t.Errorf("replay must return same tracking number: got %q, want %q", second.Shipment.TrackingNumber, first.Shipment.TrackingNumber)
	}
	if !second.AlreadyExisted {
		t.Error("replay must set AlreadyExisted=true")
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected 1 stored shipment, got %d", len(repo.byID))
	}
}

func TestShipmentService_Create_NoIdempotencyKey_AlwaysCreates(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	_, _ = svc.CreateShipment(context.Background(), minimalInput())
	_, _ = svc.CreateShipment(context.Background(), minimalInput())

	if len(repo.byID) != 2 {
		t.Errorf("without idempotency key, each call must create a new shipment; got %d", len(repo.byID))
	}
}

// ---------------------------------------------------------------------------
// Get / Update / Delete tests
// ---------------------------------------------------------------------------

func TestShipmentService_Get_NotFound(t *testing.T) {
	svc := newShipmentSvc(newStubShipmentRepo(), at(0))

	if _, err := svc.GetShipment(context.Background(), "missing"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestShipmentService_Update_PreservesIdentity(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	in := minimalInput()
	in.IdempotencyKey = "k1"
	created, err := svc.CreateShipment(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	orig := created.Shipment

	svc.WithClock(func() time.Time { return at(3) })
	edit := in.ShipmentInput
	edit.Status = "in_transit"
	edit.Destination = "Pune"
	edit.BookingDate = time.Time{}
	edit.TransitStops = edit.TransitStops[:2]

	updated, err := svc.UpdateShipment(context.Background(), orig.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != orig.ID || updated.TrackingNumber != orig.TrackingNumber {
		t.Errorf("identity changed: %+v", updated)
	}
	if !updated.CreatedAt.Equal(orig.CreatedAt) || updated.IdempotencyKey != "k1" {
		t.Errorf("creation fields must be preserved, got %+v", updated)
	}
	if !updated.BookingDate.Equal(orig.BookingDate) {
		t.Errorf("zero booking date must leave it unchanged, got %v", updated.BookingDate)
	}
	if !updated.UpdatedAt.Equal(at(3)) {
		t.Errorf("expected UpdatedAt %v, got %v", at(3), updated.UpdatedAt)
	}
	stored := repo.byID[orig.ID]
	if stored.Destination != "Pune" || stored.Status != domain.StatusInTransit || len(stored.TransitStops) != 2 {
		t.Errorf("update not persisted: %+v", stored)
	}
}

func TestShipmentService_Update_InvalidStopsLeavesRecord(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))
	created, _ := svc.CreateShipment(context.Background(), minimalInput())

	edit := minimalInput().ShipmentInput
	edit.TransitStops[0].Status = "bogus"
	if _, err := svc.UpdateShipment(context.Background(), created.Shipment.ID, edit); !errors.Is(err, domain.ErrInvalidStopStatus) {
		t.Fatalf("expected ErrInvalidStopStatus, got %v", err)
	}
	if repo.byID[created.Shipment.ID].TransitStops[0].Status != domain.StopScheduled {
		t.Error("stored record must be untouched")
	}
}

func TestShipmentService_Delete(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))
	created, _ := svc.CreateShipment(context.Background(), minimalInput())

	if err := svc.DeleteShipment(context.Background(), created.Shipment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteShipment(context.Background(), created.Shipment.ID); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("second delete must report not found, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListShipments tests
// ---------------------------------------------------------------------------

func seedShipments(t *testing.T, svc *ShipmentService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		in := minimalInput()
		in.BookingDate = day0.AddDate(0, 0, i)
		if i%2 == 1 {
			in.Status = string(domain.StatusDelivered)
		}
		if _, err := svc.CreateShipment(context.Background(), in); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
}

func TestShipmentService_List_Pagination(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))
	seedShipments(t, svc, 5)

	page, err := svc.ListShipments(context.Background(), ports.ListShipmentsInput{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 5 || len(page.Items) != 2 || !page.HasMore {
		t.Errorf("unexpected first page: total=%d items=%d has_more=%v", page.TotalCount, len(page.Items), page.HasMore)
	}
	if !page.Items[0].BookingDate.After(page.Items[1].BookingDate) {
		t.Error("expected newest booking first")
	}

	last, err := svc.ListShipments(context.Background(), ports.ListShipmentsInput{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Items) != 1 || last.HasMore {
		t.Errorf("unexpected last page: items=%d has_more=%v", len(last.Items), last.HasMore)
	}
}

func TestShipmentService_List_NormalizesPaging(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	page, err := svc.ListShipments(context.Background(), ports.ListShipmentsInput{Page: 0, Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Page != 1 || repo.lastFilter.Limit != domain.MaxPageLimit {
		t.Errorf("expected page 1 limit %d, got %+v", domain.MaxPageLimit, repo.lastFilter)
	}
	if page.Items == nil {
		t.Error("empty result must serialise as an empty list")
	}
}

func TestShipmentService_List_FiltersByStatusAndSearch(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))
	seedShipments(t, svc, 4)

	page, err := svc.ListShipments(context.Background(), ports.ListShipmentsInput{Status: "delivered", Search: "  meera "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("expected 2 delivered shipments, got %d", page.TotalCount)
	}
	if repo.lastFilter.Search != "meera" {
		t.Errorf("search must be trimmed, got %q", repo.lastFilter.Search)
	}
}

func TestShipmentService_List_RepoError(t *testing.T) {
	repo := newStubShipmentRepo()
	repo.createErr = errors.New("db unavailable")
	svc := newShipmentSvc(repo, at(0))

	if _, err := svc.ListShipments(context.Background(), ports.ListShipmentsInput{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// Track tests
// ---------------------------------------------------------------------------

func TestShipmentService_Track(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))
	created, err := svc.CreateShipment(context.Background(), minimalInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tn := created.Shipment.TrackingNumber

	cases := []struct {
		name     string
		now      time.Time
		status   tracking.DisplayStatus
		location string
		progress float64
	}{
		{"before first arrival", at(-1), tracking.BookingConfirmed, "Delhi", 0},
		{"inside first window", at(1), tracking.AtStop, "Delhi", 0},
		{"between stops", at(5), tracking.InTransit, "Delhi", 0},
		{"inside second window", at(11), tracking.AtStop, "Jaipur", 0.5},
		{"after last departure", at(40), tracking.Delivered, "Mumbai", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc.WithClock(func() time.Time { return tc.now })
			view, err := svc.Track(context.Background(), " "+strings.ToLower(tn)+" ")
			if err != nil {
				t.Fatalf("track: %v", err)
			}
			if view.Status != tc.status || view.CurrentLocation != tc.location {
				t.Errorf("got %s at %q, want %s at %q", view.Status, view.CurrentLocation, tc.status, tc.location)
			}
			if view.Progress != tc.progress {
				t.Errorf("expected progress %v, got %v", tc.progress, view.Progress)
			}
			if len(view.Timeline) != 3 {
				t.Errorf("expected 3 timeline entries, got %d", len(view.Timeline))
			}
			if !view.EvaluatedAt.Equal(tc.now) {
				t.Errorf("expected EvaluatedAt %v, got %v", tc.now, view.EvaluatedAt)
			}
		})
	}
}

func TestShipmentService_Track_ConfirmedStopWins(t *testing.T) {
	repo := newStubShipmentRepo()
	svc := newShipmentSvc(repo, at(0))

	in := minimalInput()
	in.TransitStops[1].Status = "departed"
	created, _ := svc.CreateShipment(context.Background(), in)

	// The schedule alone would say Delivered.
	svc.WithClock(func() time.Time { return at(100) })
	view, err := svc.Track(context.Background(), created.Shipment.TrackingNumber)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if view.Status != tracking.InTransit || view.CurrentLocation != "Jaipur" {
		t.Errorf("expected In Transit at Jaipur, got %s at %q", view.Status, view.CurrentLocation)
	}
	if view.Timeline[0].State != tracking.StopDone || view.Timeline[1].State != tracking.StopCurrent || view.Timeline[2].State != tracking.StopUpcoming {
		t.Errorf("unexpected timeline: %+v", view.Timeline)
	}
}

func TestShipmentService_Track_NotFound(t *testing.T) {
	svc := newShipmentSvc(newStubShipmentRepo(), at(0))

	if _, err := svc.Track(context.Background(), "MVR-00000000"); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Errorf("expected ErrShipmentNotFound, got %v", err)
	}
}
