package repository

import (
	"context"

	"myshop/internal/domain/entity"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetDesignatedAdmin resolves the single participant holding the admin
	// role, used for "contact support" flows.
	GetDesignatedAdmin(ctx context.Context) (*entity.User, error)
}
