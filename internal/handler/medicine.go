package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medicare/medicare-api/internal/handler/dto"
	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/query"
	"github.com/medicare/medicare-api/internal/repository"
	"github.com/medicare/medicare-api/internal/service"
)

// MedicineHandler handles HTTP requests for the medicine catalog.
type MedicineHandler struct {
	svc    *service.MedicineService
	logger *slog.Logger
}

// NewMedicineHandler creates a new MedicineHandler.
func NewMedicineHandler(svc *service.MedicineService, logger *slog.Logger) *MedicineHandler {
	return &MedicineHandler{
		svc:    svc,
		logger: logger,
	}
}

// Routes mounts the catalog endpoints on r.
func (h *MedicineHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/medicines.
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := query.ParseParams(r.URL.Query())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	result, err := h.svc.List(r.Context(), params)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Page(result.Items, result.Total, result.Page, result.TotalPages))
}

// Get handles GET /api/medicines/{id}.
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(w, r)
	if !ok {
		return
	}

	medicine, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(medicine))
}

// Create handles POST /api/medicines.
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input model.Medicine
	if !decodeJSON(w, r, &input) {
		return
	}

	medicine, err := h.svc.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("medicine_created",
		"medicine_id", medicine.ID,
		"category", medicine.Category,
	)

	writeJSON(w, http.StatusCreated, dto.OK(medicine))
}

// Update handles PUT /api/medicines/{id}.
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	patch, err := repository.ParsePatch(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	medicine, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("medicine_updated",
		"medicine_id", medicine.ID,
		"fields", len(patch),
	)

	writeJSON(w, http.StatusOK, dto.OK(medicine))
}

// Delete handles DELETE /api/medicines/{id}.
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := medicineID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("medicine_deleted", "medicine_id", id)

	writeJSON(w, http.StatusOK, dto.Envelope{Success: true, Message: "Medicine deleted"})
}

// medicineID parses the {id} path parameter. An id that is not an integer
// cannot match any record, so it is answered with 404 like a missing one.
func medicineID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, msgMedicineNotFound)
		return 0, false
	}
	return id, true
}
