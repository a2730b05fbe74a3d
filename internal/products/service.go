// Package products runs product mutations: validate, send, then refresh the
// visible listing on success.
package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lukman83/storefront/internal/models"
	"github.com/lukman83/storefront/internal/validate"
)

// ErrInFlight is returned when the same mutation is already outstanding.
var ErrInFlight = errors.New("a request for this product is already in progress")

// MutationError is a create, update or delete the catalog did not accept.
type MutationError struct {
	Op        string
	ProductID int
	Err       error
}

func (e *MutationError) Error() string {
	if e.ProductID == 0 {
		return fmt.Sprintf("%s product: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s product %d: %v", e.Op, e.ProductID, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Backend is the part of the catalog client mutations need.
type Backend interface {
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, patch models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) (*models.Product, error)
}

// Listing is the visible product list kept in step with successful mutations.
type Listing interface {
	ReplaceItem(p models.Product) bool
	RemoveItem(id int) bool
}

type Service struct {
	backend Backend
	listing Listing
	log     zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

type Option func(*Service)

func WithListing(l Listing) Option {
	return func(s *Service) { s.listing = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(b Backend, opts ...Option) *Service {
	s := &Service{
		backend:  b,
		log:      zerolog.Nop(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the form and adds the product. The catalog does not
// persist it, so the listing is left alone.
func (s *Service) Create(ctx context.Context, form validate.ProductForm) (*models.Product, error) {
	if err := validate.ValidateProduct(form).Err(); err != nil {
		return nil, err
	}
	in, err := form.Input()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire("create")
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := s.backend.CreateProduct(ctx, in)
	if err != nil {
		s.log.Warn().Err(err).Str("title", in.Title).Msg("create failed")
		return nil, &MutationError{Op: "create", Err: err}
	}
	s.log.Info().Int("id", p.ID).Str("title", p.Title).Msg("product created")
	return p, nil
}

// Update validates the given fields and applies them. On success the edited
// product replaces its copy in the listing.
func (s *Service) Update(ctx context.Context, id int, form validate.PatchForm) (*models.Product, error) {
	if err := validate.ValidatePatch(form).Err(); err != nil {
		return nil, err
	}
	patch, err := form.Patch()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(key(id))
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := s.backend.UpdateProduct(ctx, id, patch)
	if err != nil {
		s.log.Warn().Err(err).Int("id", id).Msg("update failed")
		return nil, &MutationError{Op: "update", ProductID: id, Err: err}
	}
	if s.listing != nil {
		s.listing.ReplaceItem(*p)
	}
	s.log.Info().Int("id", id).Msg("product updated")
	return p, nil
}

// Delete removes a product. The listing only changes once the catalog
// confirms.
func (s *Service) Delete(ctx context.Context, id int) (*models.Product, error) {
	release, err := s.acquire(key(id))
	if err != nil {
		return nil, err
	}
	defer release()

	p, err := s.backend.DeleteProduct(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Int("id", id).Msg("delete failed")
		return nil, &MutationError{Op: "delete", ProductID: id, Err: err}
	}
	if s.listing != nil {
		s.listing.RemoveItem(id)
	}
	s.log.Info().Int("id", id).Msg("product deleted")
	return p, nil
}

func (s *Service) acquire(k string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[k]; busy {
		return nil, ErrInFlight
	}
	s.inflight[k] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, k)
		s.mu.Unlock()
	}, nil
}

func key(id int) string {
	return "product:" + strconv.Itoa(id)
}
