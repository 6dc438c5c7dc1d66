package router

import (
	"github.com/labstack/echo/v4"

	"myshop/internal/adapter/api/handler"
	"myshop/internal/adapter/api/middleware"
)

func SetupFAQRouter(e *echo.Echo, faqHandler *handler.FAQHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	faqGroup := e.Group("/v1/faqs")

	// Public: storefront chatbot and FAQ browsing
	faqGroup.GET("", faqHandler.GetFAQs)
	faqGroup.GET("/:id", faqHandler.GetFAQByID)
	faqGroup.POST("/chatbot", faqHandler.Chatbot)

	// Admin: FAQ management
	adminGroup := e.Group("/v1/faqs")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)
	adminGroup.POST("", faqHandler.CreateFAQ)
	adminGroup.PUT("/:id", faqHandler.UpdateFAQ)
	adminGroup.DELETE("/:id", faqHandler.DeleteFAQ)
}
