package user

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Service interface {
	CreateUser(ctx context.Context, fields Fields) (bson.ObjectID, error)
	GetUserByID(ctx context.Context, rawID string) (*User, error)
	UpdateUser(ctx context.Context, rawID string, fields Fields) (UpdateResult, error)
	DeleteUser(ctx context.Context, rawID string) (int64, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*service)

// WithClock replaces the clock used to stamp createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) Service {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	s := &service{
		repo:     repo,
		validate: validate,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateUser(ctx context.Context, fields Fields) (bson.ObjectID, error) {
	if err := s.validate.Struct(fields); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return bson.NilObjectID, missingFieldsError(validationErrors)
		}
		return bson.NilObjectID, fmt.Errorf("failed to validate user fields: %w", err)
	}

	// MongoDB keeps millisecond precision; stamp what will be read back.
	now := s.now().UTC().Truncate(time.Millisecond)
	user := &User{
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Email:     fields.Email,
		Password:  fields.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		return bson.NilObjectID, databaseError(err)
	}

	return id, nil
}

func (s *service) GetUserByID(ctx context.Context, rawID string) (*User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundError(rawID)
		}
		return nil, databaseError(err)
	}

	return user, nil
}

func (s *service) UpdateUser(ctx context.Context, rawID string, fields Fields) (UpdateResult, error) {
	id, err := parseID(rawID)
	if err != nil {
		return UpdateResult{}, err
	}

	if fields.IsEmpty() {
		return UpdateResult{}, &Error{
			Kind:   KindNoFields,
			Detail: "No fields to update for user with ID: " + rawID,
		}
	}

	patch := Patch{
		Fields:    fields,
		UpdatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	res, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return UpdateResult{}, databaseError(err)
	}

	return res, nil
}

func (s *service) DeleteUser(ctx context.Context, rawID string) (int64, error) {
	id, err := parseID(rawID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, databaseError(err)
	}
	if deleted == 0 {
		return 0, notFoundError(rawID)
	}

	return deleted, nil
}

func parseID(rawID string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(rawID)
	if err != nil {
		return bson.NilObjectID, &Error{
			Kind:   KindInvalidID,
			Detail: "Invalid ID format: " + rawID,
			Err:    err,
		}
	}
	return id, nil
}

func notFoundError(rawID string) *Error {
	return &Error{
		Kind:   KindNotFound,
		Detail: "User not found with ID: " + rawID,
		Err:    ErrNotFound,
	}
}

func missingFieldsError(validationErrors validator.ValidationErrors) *Error {
	names := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		names = append(names, fe.Field())
	}
	return &Error{
		Kind:   KindMissingFields,
		Detail: "Missing fields: " + strings.Join(names, ", "),
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
