// package models defines the data model for the ytsheet sync service
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
// Implementations include Run and OutcomeRecord.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// timestamps holds the bookkeeping fields shared by persistent models.
type timestamps struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
}

func newTimestamps(now time.Time) timestamps {
	return timestamps{createdAt: now, updatedAt: now}
}

func (t *timestamps) ID() string           { return t.id }
func (t *timestamps) CreatedAt() time.Time { return t.createdAt }
func (t *timestamps) UpdatedAt() time.Time { return t.updatedAt }
func (t *timestamps) SetID(id string)      { t.id = id }

func (t *timestamps) SetUpdatedAt(at time.Time) { t.updatedAt = at }

// Restore sets the bookkeeping fields when a model is loaded from the database.
func (t *timestamps) Restore(id string, createdAt, updatedAt time.Time) {
	t.id = id
	t.createdAt = createdAt
	t.updatedAt = updatedAt
}
