package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"staybook/internal/domain"
)

type Service struct {
	properties propertyStore
}

func NewService(properties propertyStore) *Service {
	return &Service{properties: properties}
}

// List returns the public catalog, featured properties first.
func (s *Service) List(ctx context.Context) ([]domain.Property, error) {
	return s.properties.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPropertyNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req CreatePropertyRequest) (*domain.Property, error) {
	p := &domain.Property{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Address:       req.Address,
		Category:      req.Category,
		Guests:        req.Guests,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		PricePerNight: req.PricePerNight,
		Images:        req.Images,
		Amenities:     req.Amenities,
		Featured:      req.Featured,
		IsActive:      true,
		OwnerID:       req.OwnerID,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update: only fields present in the request change.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Guests != nil {
		p.Guests = *req.Guests
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight <= 0 {
			return nil, ErrValidation
		}
		p.PricePerNight = *req.PricePerNight
	}
	if req.Images != nil {
		p.Images = *req.Images
	}
	if req.Amenities != nil {
		p.Amenities = *req.Amenities
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.OwnerID != nil {
		p.OwnerID = req.OwnerID
	}

	if err := s.properties.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.properties.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	return nil
}
