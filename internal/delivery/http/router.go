package http

import (
	"net/http"

	"go-doctor-scheduling/internal/delivery/http/handler"
	"go-doctor-scheduling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	doctorScheduleHandler *handler.DoctorScheduleHandler
	availabilityHandler   *handler.AvailabilityHandler
	slotRemovalHandler    *handler.SlotRemovalHandler
	appointmentHandler    *handler.AppointmentHandler
	auditLogHandler       *handler.AuditLogHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	metricsHandler        http.Handler
}

func NewRouter(
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	availabilityHandler *handler.AvailabilityHandler,
	slotRemovalHandler *handler.SlotRemovalHandler,
	appointmentHandler *handler.AppointmentHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		doctorScheduleHandler: doctorScheduleHandler,
		availabilityHandler:   availabilityHandler,
		slotRemovalHandler:    slotRemovalHandler,
		appointmentHandler:    appointmentHandler,
		auditLogHandler:       auditLogHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		metricsHandler:        metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	// Prometheus scrape endpoint
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Availability routes (public)
	doctors := api.PathPrefix("/doctors/{doctorId}").Subrouter()
	doctors.HandleFunc("/available-slots", r.availabilityHandler.GetAvailableSlots).Methods(http.MethodGet)
	doctors.HandleFunc("/available-slots/range", r.availabilityHandler.GetAvailableSlotsRange).Methods(http.MethodGet)
	doctors.HandleFunc("/availability", r.availabilityHandler.CheckAvailability).Methods(http.MethodGet)
	doctors.HandleFunc("/schedule", r.availabilityHandler.GetDoctorSchedule).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctor/schedule").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)

	doctor.HandleFunc("", r.doctorScheduleHandler.GetMySchedule).Methods(http.MethodGet)
	doctor.HandleFunc("/range", r.doctorScheduleHandler.GetMyScheduleRange).Methods(http.MethodGet)
	doctor.HandleFunc("/import", r.doctorScheduleHandler.ImportTemplate).Methods(http.MethodPost)

	// Recurring slots; /week must be registered before /{id}
	doctor.HandleFunc("/recurring", r.doctorScheduleHandler.CreateRecurringSlot).Methods(http.MethodPost)
	doctor.HandleFunc("/recurring/week", r.doctorScheduleHandler.ReplaceWeek).Methods(http.MethodPut)
	doctor.HandleFunc("/recurring/{id:[0-9]+}", r.doctorScheduleHandler.UpdateRecurringSlot).Methods(http.MethodPut)
	doctor.HandleFunc("/recurring/{id:[0-9]+}", r.doctorScheduleHandler.DeleteRecurringSlot).Methods(http.MethodDelete)

	// Breaks
	doctor.HandleFunc("/breaks", r.doctorScheduleHandler.CreateRecurringBreak).Methods(http.MethodPost)
	doctor.HandleFunc("/breaks/{id:[0-9]+}", r.doctorScheduleHandler.UpdateRecurringBreak).Methods(http.MethodPut)
	doctor.HandleFunc("/breaks/{id:[0-9]+}", r.doctorScheduleHandler.DeleteRecurringBreak).Methods(http.MethodDelete)

	// One-time slots
	doctor.HandleFunc("/one-time", r.doctorScheduleHandler.CreateOneTimeSlot).Methods(http.MethodPost)
	doctor.HandleFunc("/one-time/{id:[0-9]+}", r.doctorScheduleHandler.UpdateOneTimeSlot).Methods(http.MethodPut)
	doctor.HandleFunc("/one-time/{id:[0-9]+}", r.doctorScheduleHandler.DeleteOneTimeSlot).Methods(http.MethodDelete)

	// Removal requests (doctor side)
	doctor.HandleFunc("/removal-requests", r.slotRemovalHandler.CreateRemovalRequest).Methods(http.MethodPost)
	doctor.HandleFunc("/removal-requests", r.slotRemovalHandler.GetMyRemovalRequests).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.BookAppointment).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/slot-removal-requests", r.slotRemovalHandler.GetRemovalRequests).Methods(http.MethodGet)
	admin.HandleFunc("/slot-removal-requests/{id:[0-9]+}/approve", r.slotRemovalHandler.ApproveRemovalRequest).Methods(http.MethodPost)
	admin.HandleFunc("/slot-removal-requests/{id:[0-9]+}/reject", r.slotRemovalHandler.RejectRemovalRequest).Methods(http.MethodPost)

	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
