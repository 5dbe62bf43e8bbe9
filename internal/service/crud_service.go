// Package service implements the CRUD protocol every menu resource follows:
// validate, query, re-read, normalize.
package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-menu-service/internal/domain"
	"restaurant-menu-service/internal/store"
	"restaurant-menu-service/internal/validation"
)

// ErrEmptyUpdate is returned when an update request carries no writable field.
var ErrEmptyUpdate = errors.New("service: nothing to update")

// CRUDService runs list/get/create/update/delete for any domain.Resource.
// It holds no per-request state.
type CRUDService struct {
	store     store.ResourceStorer
	validator *validation.Validator
}

// NewCRUDService creates a CRUDService over the given store.
func NewCRUDService(s store.ResourceStorer, v *validation.Validator) *CRUDService {
	return &CRUDService{store: s, validator: v}
}

// List returns every row of res, newest first. Never nil.
func (c *CRUDService) List(ctx context.Context, res *domain.Resource) ([]domain.Row, error) {
	rows, err := c.store.List(ctx, res)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	for i := range rows {
		rows[i] = res.Normalize(rows[i])
	}
	return rows, nil
}

// Get returns the row identified by rawID.
func (c *CRUDService) Get(ctx context.Context, res *domain.Resource, rawID string) (domain.Row, error) {
	id, failures := c.validator.ID(rawID)
	if len(failures) > 0 {
		return nil, &validation.Error{Failures: failures}
	}
	return c.read(ctx, res, id)
}

// Create validates body against the create rules, inserts it and returns the
// stored row including joined labels and server-assigned fields.
func (c *CRUDService) Create(ctx context.Context, res *domain.Resource, body map[string]any) (domain.Row, error) {
	values, failures := c.validator.Body(res.CreateRules(), body, false)
	if len(failures) > 0 {
		return nil, &validation.Error{Failures: failures}
	}

	id, err := c.store.Create(ctx, res, res.Coerce(values))
	if err != nil {
		return nil, err
	}
	row, err := c.read(ctx, res, id)
	if err != nil {
		// A missing row here is a storage inconsistency, not a client lookup miss.
		return nil, fmt.Errorf("service: re-read created %s %d: %v", res.Singular, id, err)
	}
	return row, nil
}

// Update changes only the fields present in body.
func (c *CRUDService) Update(ctx context.Context, res *domain.Resource, rawID string, body map[string]any) (domain.Row, error) {
	id, failures := c.validator.ID(rawID)
	values, bodyFailures := c.validator.Body(res.UpdateRules(), body, true)
	failures = append(failures, bodyFailures...)
	if len(failures) > 0 {
		return nil, &validation.Error{Failures: failures}
	}
	if len(values) == 0 {
		return nil, ErrEmptyUpdate
	}

	if err := c.store.Update(ctx, res, id, res.Coerce(values)); err != nil {
		return nil, err
	}
	return c.read(ctx, res, id)
}

// Delete removes the row identified by rawID.
func (c *CRUDService) Delete(ctx context.Context, res *domain.Resource, rawID string) error {
	id, failures := c.validator.ID(rawID)
	if len(failures) > 0 {
		return &validation.Error{Failures: failures}
	}
	return c.store.Delete(ctx, res, id)
}

func (c *CRUDService) read(ctx context.Context, res *domain.Resource, id int64) (domain.Row, error) {
	row, err := c.store.GetByID(ctx, res, id)
	if err != nil {
		return nil, err
	}
	return res.Normalize(row), nil
}
