package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medicare/medicare-api/internal/handler/dto"
	"github.com/medicare/medicare-api/internal/service"
)

// DiseaseMedicines handles GET /api/diseases/{disease}/medicines.
// Unknown diseases return an empty list.
func DiseaseMedicines(w http.ResponseWriter, r *http.Request) {
	medicines := service.MedicinesForDisease(chi.URLParam(r, "disease"))
	writeJSON(w, http.StatusOK, dto.OK(medicines))
}

// Diseases handles GET /api/diseases, listing the names DiseaseMedicines knows.
func Diseases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.OK(service.KnownDiseases()))
}
