package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"slotbook/internal/config"
	"slotbook/internal/database"
	"slotbook/internal/domain"
	"slotbook/internal/export"
	"slotbook/internal/metrics"
	"slotbook/internal/models"
	"slotbook/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking engine over HTTP.
type HTTPServer struct {
	cfg      config.APIConfig
	schedule domain.ScheduleService
	booking  domain.BookingService
	catalog  domain.CatalogService
	exporter *export.Exporter
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	schedule domain.ScheduleService,
	booking domain.BookingService,
	catalog domain.CatalogService,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		schedule: schedule,
		booking:  booking,
		catalog:  catalog,
		exporter: exporter,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/professionals/", srv.handleProfessionals)
	mux.HandleFunc("/api/v1/appointments", srv.handleAppointments)
	mux.HandleFunc("/api/v1/appointments/", srv.handleAppointmentByID)
	mux.HandleFunc("/api/v1/services", srv.handleServices)
	mux.HandleFunc("/api/v1/export/appointments", srv.handleExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the fully wrapped handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// handleProfessionals routes /api/v1/professionals/{id}/slots,
// /api/v1/professionals/{id}/slots/range and
// /api/v1/professionals/{id}/schedule.
func (s *HTTPServer) handleProfessionals(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/professionals/")
	parts := strings.Split(rest, "/")

	professionalID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || professionalID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid professional id")
		return
	}

	switch {
	case len(parts) == 2 && parts[1] == "slots" && r.Method == http.MethodGet:
		s.handleSlots(w, r, professionalID)
	case len(parts) == 3 && parts[1] == "slots" && parts[2] == "range" && r.Method == http.MethodGet:
		s.handleSlotsRange(w, r, professionalID)
	case len(parts) == 2 && parts[1] == "schedule" && r.Method == http.MethodPut:
		s.handleSaveSchedule(w, r, professionalID)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

type scheduleRuleRequest struct {
	Weekday             int    `json:"weekday"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	SlotIntervalMinutes int    `json:"slot_interval_minutes"`
}

// handleSaveSchedule replaces the professional's weekly rules wholesale.
func (s *HTTPServer) handleSaveSchedule(w http.ResponseWriter, r *http.Request, professionalID int64) {
	metrics.IncHTTP("save_schedule")

	var body struct {
		Rules []scheduleRuleRequest `json:"rules"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rules := make([]models.AvailabilityRule, 0, len(body.Rules))
	for _, rule := range body.Rules {
		if rule.Weekday < 1 || rule.Weekday > 7 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid weekday: %d", rule.Weekday))
			return
		}
		rules = append(rules, models.AvailabilityRule{
			ProfessionalID:      professionalID,
			Weekday:             rule.Weekday,
			StartTime:           rule.StartTime,
			EndTime:             rule.EndTime,
			SlotIntervalMinutes: rule.SlotIntervalMinutes,
		})
	}

	if err := s.schedule.SaveWeeklySchedule(r.Context(), professionalID, rules); err != nil {
		s.logger.Error().Err(err).Int64("professional_id", professionalID).Msg("save schedule")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"professional_id": professionalID,
		"rules":           len(rules),
	})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request, professionalID int64) {
	metrics.IncHTTP("slots")

	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	svc, ok := s.resolveService(w, r, professionalID)
	if !ok {
		return
	}

	slots, err := s.schedule.GetSlotsForDate(r.Context(), professionalID, date, svc.DurationMinutes)
	if err != nil {
		s.logger.Error().Err(err).Int64("professional_id", professionalID).Msg("get slots")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if slots == nil {
		slots = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       dateStr,
		"service_id": svc.ID,
		"slots":      slots,
	})
}

func (s *HTTPServer) handleSlotsRange(w http.ResponseWriter, r *http.Request, professionalID int64) {
	metrics.IncHTTP("slots_range")

	startStr := strings.TrimSpace(r.URL.Query().Get("start"))
	endStr := strings.TrimSpace(r.URL.Query().Get("end"))
	if startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}
	start, err := time.Parse(models.DateLayout, startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start format; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(models.DateLayout, endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end format; expected YYYY-MM-DD")
		return
	}

	svc, ok := s.resolveService(w, r, professionalID)
	if !ok {
		return
	}

	days, err := s.schedule.GetSlotsForRange(r.Context(), professionalID, start, end, svc.DurationMinutes)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, "end date is before start date")
		case errors.Is(err, service.ErrRangeTooLong):
			writeError(w, http.StatusBadRequest, "date range is too long")
		default:
			s.logger.Error().Err(err).Int64("professional_id", professionalID).Msg("get slots range")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start":      startStr,
		"end":        endStr,
		"service_id": svc.ID,
		"days":       days,
	})
}

// resolveService loads the service from the service_id query parameter and
// checks it belongs to the professional. Writes the error response itself.
func (s *HTTPServer) resolveService(w http.ResponseWriter, r *http.Request, professionalID int64) (*models.Service, bool) {
	serviceIDStr := strings.TrimSpace(r.URL.Query().Get("service_id"))
	if serviceIDStr == "" {
		writeError(w, http.StatusBadRequest, "service_id is required")
		return nil, false
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service_id")
		return nil, false
	}

	svc, err := s.catalog.GetService(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, database.ErrServiceNotFound) {
			writeError(w, http.StatusNotFound, "service not found")
		} else {
			s.logger.Error().Err(err).Int64("service_id", serviceID).Msg("resolve service")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return nil, false
	}
	if svc.ProfessionalID != professionalID {
		writeError(w, http.StatusNotFound, "service not found")
		return nil, false
	}
	return svc, true
}

type createAppointmentRequest struct {
	ProfessionalID int64  `json:"professional_id"`
	ServiceID      int64  `json:"service_id"`
	StartAt        string `json:"start_at"`
	ClientName     string `json:"client_name"`
	ClientEmail    string `json:"client_email"`
	ClientPhone    string `json:"client_phone"`
	SubjectRef     string `json:"subject_ref"`
}

func (s *HTTPServer) handleAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("create_appointment")

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var body createAppointmentRequest
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.ProfessionalID <= 0 || body.ServiceID <= 0 {
		writeError(w, http.StatusBadRequest, "professional_id and service_id are required")
		return
	}
	if strings.TrimSpace(body.ClientName) == "" {
		writeError(w, http.StatusBadRequest, "client_name is required")
		return
	}
	startAt, err := time.Parse(time.RFC3339, body.StartAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_at; expected RFC3339")
		return
	}

	appointment, err := s.booking.Book(r.Context(), models.BookingRequest{
		ProfessionalID: body.ProfessionalID,
		ServiceID:      body.ServiceID,
		StartAt:        startAt,
		ClientName:     strings.TrimSpace(body.ClientName),
		ClientEmail:    strings.TrimSpace(body.ClientEmail),
		ClientPhone:    strings.TrimSpace(body.ClientPhone),
		SubjectRef:     strings.TrimSpace(body.SubjectRef),
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrSlotTaken):
			metrics.IncBooking("slot_taken")
			writeError(w, http.StatusConflict, "slot already taken")
		case errors.Is(err, database.ErrServiceNotFound):
			metrics.IncBooking("service_not_found")
			writeError(w, http.StatusNotFound, "service not found")
		default:
			metrics.IncBooking("error")
			s.logger.Error().Err(err).Msg("create appointment")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	metrics.IncBooking("created")
	writeJSON(w, http.StatusCreated, appointmentResponse(appointment))
}

// handleAppointmentByID serves GET /api/v1/appointments/{id} and
// PATCH /api/v1/appointments/{id}/status.
func (s *HTTPServer) handleAppointmentByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/appointments/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.handleGetAppointment(w, r, id)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPatch:
		s.handleUpdateStatus(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleGetAppointment(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("get_appointment")

	appointment, err := s.booking.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAppointmentNotFound) {
			writeError(w, http.StatusNotFound, "appointment not found")
			return
		}
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("get appointment")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, appointmentResponse(appointment))
}

func (s *HTTPServer) handleUpdateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("update_status")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ok, err := s.booking.UpdateStatus(r.Context(), id, strings.TrimSpace(body.Status))
	if err != nil {
		if errors.Is(err, database.ErrUnknownStatus) {
			writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("update status")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": body.Status})
}

func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("services")

	professionalID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("professional_id")), 10, 64)
	if err != nil || professionalID <= 0 {
		writeError(w, http.StatusBadRequest, "professional_id is required")
		return
	}

	services, err := s.catalog.GetActiveServices(r.Context(), professionalID)
	if err != nil {
		s.logger.Error().Err(err).Int64("professional_id", professionalID).Msg("list services")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if services == nil {
		services = []*models.Service{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("export")

	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	professionalID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("professional_id")), 10, 64)
	if err != nil || professionalID <= 0 {
		writeError(w, http.StatusBadRequest, "professional_id is required")
		return
	}
	start, err := time.Parse(models.DateLayout, strings.TrimSpace(r.URL.Query().Get("start")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start format; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse(models.DateLayout, strings.TrimSpace(r.URL.Query().Get("end")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end format; expected YYYY-MM-DD")
		return
	}

	filePath, err := s.exporter.ExportAppointments(r.Context(), professionalID, start, end)
	if err != nil {
		s.logger.Error().Err(err).Int64("professional_id", professionalID).Msg("export appointments")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"file_path": filePath})
}

func appointmentResponse(a *models.Appointment) map[string]any {
	return map[string]any{
		"id":               a.ID,
		"public_id":        a.PublicID,
		"professional_id":  a.ProfessionalID,
		"service_id":       a.ServiceID,
		"service_name":     a.ServiceName,
		"client_name":      a.ClientName,
		"start_at":         a.StartAt.Format(time.RFC3339),
		"end_at":           a.EndAt.Format(time.RFC3339),
		"status":           a.Status,
		"price_at_booking": a.PriceAtBooking,
	}
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
