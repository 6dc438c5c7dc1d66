package usecase

import (
	"context"

	"myshop/internal/domain/entity"
	"myshop/internal/domain/repository"
	"myshop/pkg/errors"
)

type FAQUseCase struct {
	faqRepo repository.FAQRepository
}

func NewFAQUseCase(faqRepo repository.FAQRepository) *FAQUseCase {
	return &FAQUseCase{
		faqRepo: faqRepo,
	}
}

type CreateFAQInput struct {
	Question string
	Answer   string
	Category string
}

type UpdateFAQInput struct {
	Question string
	Answer   string
	Category string
}

func (uc *FAQUseCase) CreateFAQ(ctx context.Context, input CreateFAQInput) (*entity.FAQ, error) {
	if input.Category == "" {
		input.Category = entity.FAQCategoryGeneral
	}

	faq := &entity.FAQ{
		Question: input.Question,
		Answer:   input.Answer,
		Category: input.Category,
	}

	if err := uc.faqRepo.Create(ctx, faq); err != nil {
		return nil, err
	}

	return faq, nil
}

func (uc *FAQUseCase) GetFAQs(ctx context.Context) ([]*entity.FAQ, error) {
	return uc.faqRepo.List(ctx)
}

func (uc *FAQUseCase) GetFAQByID(ctx context.Context, id string) (*entity.FAQ, error) {
	return uc.faqRepo.GetByID(ctx, id)
}

// UpdateFAQ overwrites only the fields the caller supplied.
func (uc *FAQUseCase) UpdateFAQ(ctx context.Context, id string, input UpdateFAQInput) (*entity.FAQ, error) {
	faq, err := uc.faqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Question != "" {
		faq.Question = input.Question
	}
	if input.Answer != "" {
		faq.Answer = input.Answer
	}
	if input.Category != "" {
		faq.Category = input.Category
	}

	if err := uc.faqRepo.Update(ctx, faq); err != nil {
		return nil, err
	}

	return faq, nil
}

func (uc *FAQUseCase) DeleteFAQ(ctx context.Context, id string) error {
	return uc.faqRepo.Delete(ctx, id)
}

// ChatbotAnswer matches a free-text question against the stored FAQs.
func (uc *FAQUseCase) ChatbotAnswer(ctx context.Context, question string) (*entity.FAQ, error) {
	if question == "" {
		return nil, errors.Validation("Question is required", nil)
	}
	return uc.faqRepo.FindByQuestion(ctx, question)
}
