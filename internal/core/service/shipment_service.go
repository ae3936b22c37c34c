package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/internal/core/tracking"
	"github.com/swiftcargo/movers-portal/pkg/metrics"
)

type ShipmentService struct {
	repo   ports.ShipmentRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewShipmentService(repo ports.ShipmentRepository, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the wall clock used for booking dates and tracking.
func (s *ShipmentService) WithClock(now func() time.Time) *ShipmentService {
	s.now = now
	return s
}

// CreateShipment creates a new shipment. If an idempotency key is provided and
// already seen, the previously created shipment is returned without side effects.
func (s *ShipmentService) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	if input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", input.IdempotencyKey).Str("tracking_number", existing.TrackingNumber).Msg("idempotent replay")
			return &ports.ShipmentResult{Shipment: existing, AlreadyExisted: true}, nil
		}
	}

	stops, err := buildStops(input.TransitStops)
	if err != nil {
		return nil, err
	}
	status, err := parseShipmentStatus(input.Status)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	booking := input.BookingDate
	if booking.IsZero() {
		booking = now
	}

	shipment := &domain.Shipment{
		TrackingNumber: generateTrackingNumber(),
		BookingDate:    booking.UTC(),
		Status:         status,
		Consignor:      input.Consignor,
		Consignee:      input.Consignee,
		Origin:         input.Origin,
		Destination:    input.Destination,
		Description:    input.Description,
		TransitStops:   stops,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Msg("failed to create shipment")
		return nil, err
	}

	metrics.ShipmentsCreatedTotal.Inc()
	s.logger.Info().Str("tracking_number", shipment.TrackingNumber).Int("stops", len(stops)).Msg("shipment created")

	return &ports.ShipmentResult{Shipment: shipment}, nil
}

func (s *ShipmentService) GetShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateShipment replaces the editable fields. Tracking number, creation time
// and idempotency key are preserved.
func (s *ShipmentService) UpdateShipment(ctx context.Context, id string, input ports.ShipmentInput) (*domain.Shipment, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stops, err := buildStops(input.TransitStops)
	if err != nil {
		return nil, err
	}
	status, err := parseShipmentStatus(input.Status)
	if err != nil {
		return nil, err
	}

	current.Status = status
	current.Consignor = input.Consignor
	current.Consignee = input.Consignee
	current.Origin = input.Origin
	current.Destination = input.Destination
	current.Description = input.Description
	current.TransitStops = stops
	if !input.BookingDate.IsZero() {
		current.BookingDate = input.BookingDate.UTC()
	}
	current.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("update shipment: %w", err)
	}

	s.logger.Info().Str("tracking_number", current.TrackingNumber).Msg("shipment updated")
	return current, nil
}

func (s *ShipmentService) DeleteShipment(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("shipment_id", id).Msg("shipment deleted")
	return nil
}

// ListShipments returns a page of shipments. Limit defaults to 20 and is
// capped at 100.
func (s *ShipmentService) ListShipments(ctx context.Context, input ports.ListShipmentsInput) (*domain.Page[*domain.Shipment], error) {
	page, limit := domain.NormalizePage(input.Page, input.Limit)

	items, total, err := s.repo.List(ctx, ports.ListShipmentsFilter{
		Status:   input.Status,
		Search:   strings.TrimSpace(input.Search),
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	p := domain.NewPage(items, total, page, limit)
	return &p, nil
}

// Track resolves the public view of a shipment at the current instant.
func (s *ShipmentService) Track(ctx context.Context, trackingNumber string) (*ports.TrackingView, error) {
	trackingNumber = domain.NormalizeTrackingNumber(trackingNumber)
	shipment, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	res := tracking.Resolve(shipment.TransitStops, shipment.BookingDate, now)
	metrics.TrackingLookupsTotal.WithLabelValues(string(res.Status)).Inc()

	return &ports.TrackingView{
		TrackingNumber:  shipment.TrackingNumber,
		BookingDate:     shipment.BookingDate,
		Origin:          shipment.Origin,
		Destination:     shipment.Destination,
		Status:          res.Status,
		CurrentLocation: res.Location,
		Progress:        math.Round(tracking.Progress(shipment.TransitStops, res)*100) / 100,
		Timeline:        tracking.Timeline(shipment.TransitStops, res),
		EvaluatedAt:     now,
	}, nil
}

// buildStops parses operator statuses and rejects malformed windows before
// anything reaches storage or the resolver.
func buildStops(in []ports.TransitStopInput) ([]domain.TransitStop, error) {
	stops := make([]domain.TransitStop, 0, len(in))
	for i, raw := range in {
		st, err := domain.ParseStopStatus(raw.Status)
		if err != nil {
			return nil, fmt.Errorf("transit_stops[%d]: %w", i, err)
		}
		stops = append(stops, domain.TransitStop{
			Location:          strings.TrimSpace(raw.Location),
			ExpectedArrival:   raw.ExpectedArrival.UTC(),
			ExpectedDeparture: raw.ExpectedDeparture.UTC(),
			Status:            st,
		})
	}
	if err := domain.ValidateTransitStops(stops); err != nil {
		return nil, err
	}
	return stops, nil
}

var shipmentStatuses = map[domain.ShipmentStatus]struct{}{
	domain.StatusBooked:         {},
	domain.StatusDispatched:     {},
	domain.StatusInTransit:      {},
	domain.StatusOutForDelivery: {},
	domain.StatusDelivered:      {},
	domain.StatusCancelled:      {},
}

func parseShipmentStatus(s string) (domain.ShipmentStatus, error) {
	if s == "" {
		return domain.StatusBooked, nil
	}
	st := domain.ShipmentStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := shipmentStatuses[st]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidShipmentStatus, s)
	}
	return st, nil
}

// generateTrackingNumber returns a unique tracking number in the format MVR-XXXXXXXX.
func generateTrackingNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("MVR-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("MVR-%08X", b)
}
