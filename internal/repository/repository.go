// Package repository implements the record store: typed collections of JSON
// records that are loaded, mutated and saved as a whole.
package repository

import (
	"errors"
	"fmt"

	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/storage"
)

// Collection names.
const (
	MedicinesCollection = "medicines"
	UsersCollection     = "users"
)

// Common errors for repository operations.
var (
	ErrNotFound      = errors.New("record not found")
	ErrConflict      = errors.New("record conflicts with an existing record")
	ErrInvalidRecord = errors.New("invalid record")
)

// StorageError reports an I/O or parse failure of a whole collection.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Entity is implemented by pointers to storable records.
type Entity interface {
	GetID() int64
	SetID(id int64)
	SetCreatedAt(ts string)
	SetUpdatedAt(ts string)
}

// EntityPtr constrains P to be *T implementing Entity.
type EntityPtr[T any] interface {
	*T
	Entity
}

// Medicines is the medicine collection.
type Medicines = Collection[model.Medicine, *model.Medicine]

// Users is the user collection.
type Users = Collection[model.User, *model.User]

// NewMedicines returns the medicine collection on backend.
func NewMedicines(backend storage.Backend, opts ...Option) *Medicines {
	return NewCollection[model.Medicine](backend, MedicinesCollection, opts...)
}

// NewUsers returns the user collection on backend.
func NewUsers(backend storage.Backend, opts ...Option) *Users {
	return NewCollection[model.User](backend, UsersCollection, opts...)
}
