package entity

import "time"

const (
	FAQCategoryShipping = "Shipping"
	FAQCategoryPayments = "Payments"
	FAQCategoryReturns  = "Returns"
	FAQCategoryGeneral  = "General"
)

// FAQ backs the storefront chatbot: a stored question/answer pair matched
// against free-text customer questions.
type FAQ struct {
	ID       string `json:"id" firestore:"id"`
	Question string `json:"question" firestore:"question"`
	Answer   string `json:"answer" firestore:"answer"`
	Category string `json:"category" firestore:"category"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
