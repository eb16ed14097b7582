package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"reservo/internal/bookings/service"
	apperrors "reservo/pkg/errors"
	pkghttp "reservo/pkg/http"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.POST("/api/v1/bookings/:id/cancel", h.Cancel)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), projectID, &booking); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteCreated(w, booking)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	booking, err := h.service.GetByID(r.Context(), projectID, params.ByName("id"))
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), projectID, params.ByName("id"))
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	resourceID := r.URL.Query().Get("resource_id")
	if resourceID == "" {
		pkghttp.WriteError(w, apperrors.InvalidInput("missing resource_id parameter"))
		return
	}

	startTime, err := pkghttp.ExtractTimeParam(r, "start_time")
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}
	endTime, err := pkghttp.ExtractTimeParam(r, "end_time")
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	bookings, total, err := h.service.ListByResource(r.Context(), projectID, resourceID, startTime, endTime, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WritePaginated(w, bookings, total, limit, offset)
}
