package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studiohaven/cms-api/internal/handlers"
)

// NewRouter sets up the API routes. Public routes serve the site
// itself; everything under /api/admin requires a valid token.
func NewRouter(
	auth *handlers.AuthHandler,
	inquiry *handlers.InquiryHandler,
	notification *handlers.NotificationHandler,
	views *handlers.ViewsHandler,
	news *handlers.NewsHandler,
	project *handlers.ProjectHandler,
	faq *handlers.FAQHandler,
	company *handlers.CompanyHandler,
) *mux.Router {
	router := mux.NewRouter()

	// Health check route
	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	// Public site endpoints
	router.HandleFunc("/api/requests", inquiry.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/views/count", views.Increment).Methods(http.MethodPost)
	router.HandleFunc("/api/news", news.List).Methods(http.MethodGet)
	router.HandleFunc("/api/news/{newsID}", news.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/projects", project.List).Methods(http.MethodGet)
	router.HandleFunc("/api/projects/{projectID}", project.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/faqs", faq.List).Methods(http.MethodGet)
	router.HandleFunc("/api/company", company.Get).Methods(http.MethodGet)

	// Admin endpoints
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.JWTMiddleware)

	admin.HandleFunc("/users", auth.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userID}/approve", auth.Approve).Methods(http.MethodPost)

	admin.HandleFunc("/requests", inquiry.List).Methods(http.MethodGet)
	admin.HandleFunc("/requests/counts", inquiry.Counts).Methods(http.MethodGet)
	admin.HandleFunc("/requests/{requestID}", inquiry.Get).Methods(http.MethodGet)
	admin.HandleFunc("/requests/{requestID}/answers", inquiry.RecordAnswer).Methods(http.MethodPost)

	admin.HandleFunc("/notifications", notification.List).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/mine", notification.ListMine).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/stream", notification.Stream).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/{notificationID}/read", notification.MarkRead).Methods(http.MethodPost)
	admin.HandleFunc("/notifications/{notificationID}", notification.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/views", views.Create).Methods(http.MethodPost)
	admin.HandleFunc("/views/summary", views.Summary).Methods(http.MethodGet)

	admin.HandleFunc("/news", news.Create).Methods(http.MethodPost)
	admin.HandleFunc("/news/{newsID}", news.Update).Methods(http.MethodPut)
	admin.HandleFunc("/news/{newsID}", news.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/projects", project.Create).Methods(http.MethodPost)
	admin.HandleFunc("/projects/{projectID}", project.Update).Methods(http.MethodPut)
	admin.HandleFunc("/projects/{projectID}/slot", project.UpdateSlot).Methods(http.MethodPut)
	admin.HandleFunc("/projects/{projectID}", project.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/faqs", faq.Create).Methods(http.MethodPost)
	admin.HandleFunc("/faqs/{faqID}", faq.Update).Methods(http.MethodPut)
	admin.HandleFunc("/faqs/{faqID}", faq.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/company", company.Put).Methods(http.MethodPut)

	return router
}
