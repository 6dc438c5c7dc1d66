package repository

import (
	"context"

	"myshop/internal/domain/entity"
)

type FAQRepository interface {
	Create(ctx context.Context, faq *entity.FAQ) error
	GetByID(ctx context.Context, id string) (*entity.FAQ, error)
	List(ctx context.Context) ([]*entity.FAQ, error)
	Update(ctx context.Context, faq *entity.FAQ) error
	Delete(ctx context.Context, id string) error

	// FindByQuestion returns the first FAQ whose stored question contains the
	// given text, compared case-insensitively.
	FindByQuestion(ctx context.Context, question string) (*entity.FAQ, error)
}
