package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"myshop/internal/domain/entity"
	"myshop/internal/domain/repository"
	"myshop/pkg/errors"
)

const faqsCollection = "faqs"

type firestoreFAQRepository struct {
	client *firestore.Client
}

func NewFirestoreFAQRepository(client *firestore.Client) repository.FAQRepository {
	return &firestoreFAQRepository{
		client: client,
	}
}

func (r *firestoreFAQRepository) Create(ctx context.Context, faq *entity.FAQ) error {
	if faq.ID == "" {
		faq.ID = uuid.New().String()
	}

	now := time.Now()
	faq.CreatedAt = now
	faq.UpdatedAt = now

	_, err := r.client.Collection(faqsCollection).Doc(faq.ID).Set(ctx, faq)
	if err != nil {
		return errors.Internal("Failed to create FAQ", err)
	}

	return nil
}

func (r *firestoreFAQRepository) GetByID(ctx context.Context, id string) (*entity.FAQ, error) {
	doc, err := r.client.Collection(faqsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("FAQ", err)
		}
		return nil, errors.Internal("Failed to get FAQ", err)
	}

	var faq entity.FAQ
	if err := doc.DataTo(&faq); err != nil {
		return nil, errors.Internal("Failed to parse FAQ data", err)
	}
	return &faq, nil
}

func (r *firestoreFAQRepository) List(ctx context.Context) ([]*entity.FAQ, error) {
	docs, err := r.client.Collection(faqsCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list FAQs", err)
	}

	var faqs []*entity.FAQ
	for _, doc := range docs {
		var faq entity.FAQ
		if err := doc.DataTo(&faq); err != nil {
			continue
		}
		faqs = append(faqs, &faq)
	}
	return faqs, nil
}

func (r *firestoreFAQRepository) Update(ctx context.Context, faq *entity.FAQ) error {
	faq.UpdatedAt = time.Now()

	_, err := r.client.Collection(faqsCollection).Doc(faq.ID).Set(ctx, faq)
	if err != nil {
		return errors.Internal("Failed to update FAQ", err)
	}

	return nil
}

func (r *firestoreFAQRepository) Delete(ctx context.Context, id string) error {
	doc := r.client.Collection(faqsCollection).Doc(id)
	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("FAQ", err)
		}
		return errors.Internal("Failed to get FAQ", err)
	}

	if _, err := doc.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete FAQ", err)
	}

	return nil
}

func (r *firestoreFAQRepository) FindByQuestion(ctx context.Context, question string) (*entity.FAQ, error) {
	// Firestore cannot do case-insensitive substring queries, so candidates
	// are scanned client-side. The FAQ collection stays small enough for this.
	docs, err := r.client.Collection(faqsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query FAQs", err)
	}

	needle := strings.ToLower(question)
	for _, doc := range docs {
		var faq entity.FAQ
		if err := doc.DataTo(&faq); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(faq.Question), needle) {
			return &faq, nil
		}
	}

	return nil, errors.NotFound("Matching FAQ", nil)
}
