package service

import (
	"context"
	"errors"
	"time"

	"github.com/medicare/medicare-api/internal/metrics"
	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/query"
	"github.com/medicare/medicare-api/internal/repository"
)

// MedicineService handles catalog business logic.
type MedicineService struct {
	medicines *repository.Medicines
	metrics   metrics.Recorder
}

// NewMedicineService creates a new MedicineService.
func NewMedicineService(medicines *repository.Medicines, recorder metrics.Recorder) *MedicineService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MedicineService{
		medicines: medicines,
		metrics:   recorder,
	}
}

// List loads the whole catalog and returns the requested filtered page.
func (s *MedicineService) List(ctx context.Context, params query.Params) (*query.Result, error) {
	start := time.Now()

	records, err := s.medicines.Load(ctx)
	if err != nil {
		return nil, recordStorageError(s.metrics, err)
	}

	result := query.Apply(records, params)
	s.metrics.ObserveListDuration(time.Since(start))

	return &result, nil
}

// Get retrieves a medicine by id.
func (s *MedicineService) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	medicine, err := s.medicines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, recordStorageError(s.metrics, err)
	}
	return medicine, nil
}

// Create stores a new medicine. Any id or timestamps on input are replaced.
func (s *MedicineService) Create(ctx context.Context, input model.Medicine) (*model.Medicine, error) {
	medicine, err := s.medicines.Insert(ctx, input)
	if err != nil {
		return nil, recordStorageError(s.metrics, err)
	}

	s.metrics.IncMedicineCreated()
	return medicine, nil
}

// Update merges patch into the medicine with the given id.
func (s *MedicineService) Update(ctx context.Context, id int64, patch repository.Patch) (*model.Medicine, error) {
	medicine, err := s.medicines.UpdateByID(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrMedicineNotFound
		case errors.Is(err, repository.ErrInvalidRecord):
			return nil, NewValidationError(err.Error())
		default:
			return nil, recordStorageError(s.metrics, err)
		}
	}

	s.metrics.IncMedicineUpdated()
	return medicine, nil
}

// Delete removes the medicine with the given id.
func (s *MedicineService) Delete(ctx context.Context, id int64) error {
	removed, err := s.medicines.DeleteByID(ctx, id)
	if err != nil {
		return recordStorageError(s.metrics, err)
	}
	if !removed {
		return ErrMedicineNotFound
	}

	s.metrics.IncMedicineDeleted()
	return nil
}
