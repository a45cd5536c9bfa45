package users

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/geodex/geodex/internal/geocode"
)

// UserServiceImpl implements the UserService interface. Each operation is a
// linear pipeline (validate, geocode, store) that short-circuits on the first
// failure; no operation partially commits. There is no read-before-write and
// no concurrency token, so concurrent writes to the same id are
// last-write-wins at the store's key level.
type UserServiceImpl struct {
	store    UserStore
	geocoder geocode.Geocoder
	logger   *zap.Logger
}

// NewUserService creates a new user service instance
func NewUserService(store UserStore, geocoder geocode.Geocoder, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		store:    store,
		geocoder: geocoder,
		logger:   logger,
	}
}

// Create validates the input, resolves its zip code and persists a new user
// under a freshly generated id. Nothing is written when validation or the
// geocode lookup fails.
func (s *UserServiceImpl) Create(ctx context.Context, input *UserInput) (*User, error) {
	if fields := ValidateUserInput(input); len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	coords, err := s.geocoder.Lookup(ctx, input.ZipCode)
	if err != nil {
		s.logger.Error("Geocode lookup failed during create",
			zap.String("zip_code", input.ZipCode), zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	id, err := s.store.GenerateID(ctx)
	if err != nil {
		s.logger.Error("Failed to generate user id", zap.Error(err))
		return nil, NewStorageError("", "could not generate an id", err)
	}

	user := &User{
		ID:        id,
		Name:      input.Name,
		ZipCode:   input.ZipCode,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Timezone:  coords.Timezone,
	}

	if err := s.store.Put(ctx, id, user); err != nil {
		// an id was reserved but the record never became visible; a Get on
		// it returns not found, which is acceptable
		s.logger.Error("Failed to persist created user", zap.String("user_id", id), zap.Error(err))
		return nil, NewStorageError(id, "could not save the user", err)
	}

	s.logger.Info("user created", zap.String("user_id", id))
	return user, nil
}

// Read returns the user stored at id.
func (s *UserServiceImpl) Read(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, NewInvalidRequestError("missing id")
	}

	user, err := s.store.Get(ctx, id)
	if err != nil {
		var userErr *UserError
		if errors.As(err, &userErr) && userErr.Type == UserErrorTypeNotFound {
			return nil, err
		}
		s.logger.Error("Failed to read user", zap.String("user_id", id), zap.Error(err))
		return nil, NewStorageError(id, "could not read the user", err)
	}

	return user, nil
}

// Update replaces the record at id with a freshly assembled one. The zip code
// is always re-geocoded, whether or not it changed from the stored value, so
// the derived fields can never go stale. The write is an upsert: updating an
// id that was never created silently creates it.
func (s *UserServiceImpl) Update(ctx context.Context, id string, input *UserInput) (*User, error) {
	if id == "" {
		return nil, NewInvalidRequestError("missing id")
	}

	if fields := ValidateUserInput(input); len(fields) > 0 {
		return nil, NewValidationError(fields)
	}

	coords, err := s.geocoder.Lookup(ctx, input.ZipCode)
	if err != nil {
		s.logger.Error("Geocode lookup failed during update",
			zap.String("user_id", id), zap.String("zip_code", input.ZipCode), zap.Error(err))
		return nil, NewUpstreamError(err)
	}

	user := &User{
		ID:        id,
		Name:      input.Name,
		ZipCode:   input.ZipCode,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
		Timezone:  coords.Timezone,
	}

	if err := s.store.Put(ctx, id, user); err != nil {
		s.logger.Error("Failed to persist updated user", zap.String("user_id", id), zap.Error(err))
		return nil, NewStorageError(id, "could not save the user", err)
	}

	s.logger.Info("user updated", zap.String("user_id", id))
	return user, nil
}

// Delete removes the record at id and returns the id. Deleting an id that
// does not exist still succeeds.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) (string, error) {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete user", zap.String("user_id", id), zap.Error(err))
		return "", NewStorageError(id, "could not delete the user", err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return id, nil
}
