package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"myshop/internal/usecase"
	"myshop/pkg/response"
)

type FAQHandler struct {
	faqUseCase *usecase.FAQUseCase
}

func NewFAQHandler(faqUseCase *usecase.FAQUseCase) *FAQHandler {
	return &FAQHandler{
		faqUseCase: faqUseCase,
	}
}

type createFAQRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=Shipping Payments Returns General"`
}

type updateFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category" validate:"omitempty,oneof=Shipping Payments Returns General"`
}

type chatbotRequest struct {
	Question string `json:"question" validate:"required"`
}

func (h *FAQHandler) CreateFAQ(c echo.Context) error {
	var req createFAQRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	faq, err := h.faqUseCase.CreateFAQ(c.Request().Context(), usecase.CreateFAQInput{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, faq)
}

func (h *FAQHandler) GetFAQs(c echo.Context) error {
	faqs, err := h.faqUseCase.GetFAQs(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, faqs)
}

func (h *FAQHandler) GetFAQByID(c echo.Context) error {
	faq, err := h.faqUseCase.GetFAQByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, faq)
}

func (h *FAQHandler) UpdateFAQ(c echo.Context) error {
	var req updateFAQRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	faq, err := h.faqUseCase.UpdateFAQ(c.Request().Context(), c.Param("id"), usecase.UpdateFAQInput{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, faq)
}

func (h *FAQHandler) DeleteFAQ(c echo.Context) error {
	if err := h.faqUseCase.DeleteFAQ(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "FAQ deleted"})
}

// Chatbot answers a free-text question from the stored FAQs.
func (h *FAQHandler) Chatbot(c echo.Context) error {
	var req chatbotRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	faq, err := h.faqUseCase.ChatbotAnswer(c.Request().Context(), req.Question)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, faq)
}
