package http

import (
	"net/http"

	"clinic-staffing/internal/delivery/http/handler"
	"clinic-staffing/internal/delivery/http/middleware"
	"clinic-staffing/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	scheduleHandler     *handler.ScheduleHandler
	ticketHandler       *handler.TicketHandler
	staffingHandler     *handler.StaffingHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	scheduleHandler *handler.ScheduleHandler,
	ticketHandler *handler.TicketHandler,
	staffingHandler *handler.StaffingHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		scheduleHandler:     scheduleHandler,
		ticketHandler:       ticketHandler,
		staffingHandler:     staffingHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Shared reference data (any authenticated account)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.HandleFunc("/modalities", r.doctorHandler.GetModalities).Methods(http.MethodGet)

	// Tickets: approved doctors and HR file them
	tickets := api.PathPrefix("/tickets").Subrouter()
	tickets.Use(r.authMiddleware.Authenticate)
	tickets.Use(middleware.RequireRole(entity.RoleIDDoctor, entity.RoleIDHR))
	tickets.Use(middleware.RequireApproved)
	tickets.HandleFunc("", r.ticketHandler.CreateTicket).Methods(http.MethodPost)

	// HR routes
	hr := api.PathPrefix("/hr").Subrouter()
	hr.Use(r.authMiddleware.Authenticate)
	hr.Use(middleware.RequireHR)
	hr.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	hr.HandleFunc("/doctors", r.doctorHandler.GetDoctors).Methods(http.MethodGet)
	hr.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	hr.HandleFunc("/doctors/{id}/schedule", r.scheduleHandler.GetDoctorSchedule).Methods(http.MethodGet)
	hr.HandleFunc("/doctors/{id}/schedule", r.scheduleHandler.SaveDoctorSchedule).Methods(http.MethodPost)
	hr.HandleFunc("/doctors/{id}/schedule/{entryId}", r.scheduleHandler.DeleteDoctorScheduleEntry).Methods(http.MethodDelete)
	hr.HandleFunc("/study-counts", r.staffingHandler.RecordStudyCount).Methods(http.MethodPost)

	// Manager routes
	manager := api.PathPrefix("/manager").Subrouter()
	manager.Use(r.authMiddleware.Authenticate)
	manager.Use(middleware.RequireManager)
	manager.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	manager.HandleFunc("/doctors", r.doctorHandler.GetDoctors).Methods(http.MethodGet)
	manager.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	manager.HandleFunc("/doctors/{id}/schedule", r.scheduleHandler.GetDoctorSchedule).Methods(http.MethodGet)
	manager.HandleFunc("/doctors/{id}/schedule/{entryId}", r.scheduleHandler.UpdateDoctorScheduleEntry).Methods(http.MethodPut)
	manager.HandleFunc("/tickets", r.ticketHandler.GetTickets).Methods(http.MethodGet)
	manager.HandleFunc("/tickets/{id}/approve", r.ticketHandler.ApproveTicket).Methods(http.MethodPost)
	manager.HandleFunc("/tickets/{id}/decline", r.ticketHandler.DeclineTicket).Methods(http.MethodPost)
	manager.HandleFunc("/tickets/{id}", r.ticketHandler.DeleteTicket).Methods(http.MethodDelete)
	manager.HandleFunc("/staffing/analysis", r.staffingHandler.AnalyzeWeek).Methods(http.MethodGet)
	manager.HandleFunc("/staffing/export", r.staffingHandler.ExportStudyCounts).Methods(http.MethodGet)
	manager.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)

	// Doctor self-service routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.Use(middleware.RequireApproved)
	doctor.HandleFunc("/profile", r.doctorHandler.GetMyProfile).Methods(http.MethodGet)
	doctor.HandleFunc("/schedule", r.scheduleHandler.SaveMySchedule).Methods(http.MethodPost)
	doctor.HandleFunc("/schedule", r.scheduleHandler.GetMySchedule).Methods(http.MethodGet)
	doctor.HandleFunc("/schedule/month", r.scheduleHandler.GetMyMonthSchedule).Methods(http.MethodGet)
	doctor.HandleFunc("/schedule/{id}", r.scheduleHandler.UpdateMyScheduleEntry).Methods(http.MethodPut)
	doctor.HandleFunc("/schedule/{id}", r.scheduleHandler.DeleteMyScheduleEntry).Methods(http.MethodDelete)

	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
