package model

import "time"

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// Booking reserves a quantity of a resource over [StartTime, EndTime). Times
// are stored flat so the overlap query (start_time < end && end_time > start)
// can hit a compound index; Range reconstructs the interval.
type Booking struct {
	ID         string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	ProjectID  string            `json:"project_id" bson:"project_id" validate:"required"`
	ResourceID string            `json:"resource_id" bson:"resource_id" validate:"required"`
	StartTime  time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime    time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Quantity   int               `json:"quantity" bson:"quantity" validate:"required,min=1,max=10000"`
	Metadata   map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Status     string            `json:"status" bson:"status" validate:"omitempty,oneof=active cancelled"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartTime, End: b.EndTime}
}

func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}
