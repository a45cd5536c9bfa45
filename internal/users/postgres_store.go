package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserSchema represents the users table schema in PostgreSQL
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string  `bun:"id,pk" json:"id"`
	Name      string  `bun:"name,notnull" json:"name"`
	ZipCode   string  `bun:"zip_code,notnull" json:"zip_code"`
	Latitude  float64 `bun:"latitude,notnull" json:"latitude"`
	Longitude float64 `bun:"longitude,notnull" json:"longitude"`
	Timezone  int     `bun:"timezone,notnull" json:"timezone"`
}

// PostgresStore implements UserStore with PostgreSQL storage, as an alternate
// backend for deployments without a document store.
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// EnsureSchema creates the users table if it does not exist yet
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*UserSchema)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure users table: %w", err)
	}

	return nil
}

// GenerateID produces a fresh unique identifier
func (s *PostgresStore) GenerateID(ctx context.Context) (string, error) {
	return uuid.New().String(), nil
}

// Get retrieves a user by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*User, error) {
	schema := new(UserSchema)
	err := s.db.NewSelect().
		Model(schema).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}

	return userSchemaToUser(schema), nil
}

// Put writes the full record at id, creating or overwriting it
func (s *PostgresStore) Put(ctx context.Context, id string, user *User) error {
	schema := userToUserSchema(user)
	schema.ID = id

	_, err := s.db.NewInsert().
		Model(schema).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("zip_code = EXCLUDED.zip_code").
		Set("latitude = EXCLUDED.latitude").
		Set("longitude = EXCLUDED.longitude").
		Set("timezone = EXCLUDED.timezone").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to put user %s: %w", id, err)
	}

	return nil
}

// Delete removes the record at id; zero rows affected is still success
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}

	return nil
}

// Helper conversion functions
func userSchemaToUser(schema *UserSchema) *User {
	return &User{
		ID:        schema.ID,
		Name:      schema.Name,
		ZipCode:   schema.ZipCode,
		Latitude:  schema.Latitude,
		Longitude: schema.Longitude,
		Timezone:  schema.Timezone,
	}
}

func userToUserSchema(user *User) *UserSchema {
	return &UserSchema{
		ID:        user.ID,
		Name:      user.Name,
		ZipCode:   user.ZipCode,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
		Timezone:  user.Timezone,
	}
}
