package services

import (
	"context"
	"errors"
	"strings"

	"github.com/abrezinsky/racenight/internal/authz"
	"github.com/abrezinsky/racenight/internal/logger"
	"github.com/abrezinsky/racenight/internal/models"
	"github.com/abrezinsky/racenight/internal/repository"
)

// CatalogService administers the car and map catalogs the random draws
// run over. Only active rows are drawable.
type CatalogService struct {
	log  logger.Logger
	repo repository.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(log logger.Logger, repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{log: log, repo: repo}
}

// ListCars returns all catalog cars
func (s *CatalogService) ListCars(ctx context.Context) ([]models.Car, error) {
	return s.repo.ListCars(ctx)
}

// CreateCar adds a car to the catalog
func (s *CatalogService) CreateCar(ctx context.Context, principal *authz.Principal, name string) (*models.Car, error) {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCatalogName
	}

	id, err := s.repo.CreateCar(ctx, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("Car added to catalog", "car_id", id, "name", name)
	return s.repo.GetCar(ctx, id)
}

// SetCarActive toggles a car's draw eligibility
func (s *CatalogService) SetCarActive(ctx context.Context, principal *authz.Principal, id int64, active bool) error {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return err
	}
	err := s.repo.SetCarActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "car", ID: id}
	}
	return err
}

// DeleteCar removes a car from the catalog
func (s *CatalogService) DeleteCar(ctx context.Context, principal *authz.Principal, id int64) error {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return err
	}
	err := s.repo.DeleteCar(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "car", ID: id}
	}
	return err
}

// ListMaps returns all catalog maps
func (s *CatalogService) ListMaps(ctx context.Context) ([]models.GameMap, error) {
	return s.repo.ListMaps(ctx)
}

// CreateMap adds a map to the catalog
func (s *CatalogService) CreateMap(ctx context.Context, principal *authz.Principal, name string) (*models.GameMap, error) {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCatalogName
	}

	id, err := s.repo.CreateMap(ctx, name)
	if err != nil {
		return nil, err
	}
	s.log.Info("Map added to catalog", "map_id", id, "name", name)
	return s.repo.GetMap(ctx, id)
}

// SetMapActive toggles a map's draw eligibility
func (s *CatalogService) SetMapActive(ctx context.Context, principal *authz.Principal, id int64, active bool) error {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return err
	}
	err := s.repo.SetMapActive(ctx, id, active)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "map", ID: id}
	}
	return err
}

// DeleteMap removes a map from the catalog
func (s *CatalogService) DeleteMap(ctx context.Context, principal *authz.Principal, id int64) error {
	if err := authz.Require(principal, authz.ActionManageCatalog, ""); err != nil {
		return err
	}
	err := s.repo.DeleteMap(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: "map", ID: id}
	}
	return err
}
