package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"reservo/internal/resources/service"
	apperrors "reservo/pkg/errors"
	pkghttp "reservo/pkg/http"
	"reservo/pkg/logger"
	"reservo/pkg/model"
)

type ResourceHandler struct {
	service service.ResourceService
	log     *logger.Logger
}

func NewResourceHandler(service service.ResourceService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{service: service, log: log}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/resources", h.Create)
	router.GET("/api/v1/resources", h.List)
	router.GET("/api/v1/resources/:id", h.GetByID)
	router.PATCH("/api/v1/resources/:id", h.Update)
	router.DELETE("/api/v1/resources/:id", h.Delete)
}

func (h *ResourceHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	var resource model.Resource
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), projectID, &resource); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteCreated(w, resource)
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	resource, err := h.service.GetByID(r.Context(), projectID, params.ByName("id"))
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, resource)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	resources, total, err := h.service.ListByProject(r.Context(), projectID, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WritePaginated(w, resources, total, limit, offset)
}

func (h *ResourceHandler) Update(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	var update model.ResourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	resource, err := h.service.Update(r.Context(), projectID, params.ByName("id"), &update)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteSuccess(w, resource)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	projectID, err := pkghttp.ExtractProjectID(r)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), projectID, params.ByName("id")); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteNoContent(w)
}
