package model

import "time"

// Resource is the shared, capacity-limited thing being booked. It belongs to
// exactly one project and is read-only from the reservation engine's
// perspective.
type Resource struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	ProjectID       string            `json:"project_id" bson:"project_id" validate:"required"`
	Name            string            `json:"name" bson:"name" validate:"required,min=2,max=100"`
	DefaultCapacity int               `json:"default_capacity" bson:"default_capacity" validate:"required,min=1,max=10000"`
	BookingConfig   *BookingConfig    `json:"booking_config,omitempty" bson:"booking_config,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingConfig restricts when a resource accepts bookings. A nil config, or
// a nil sub-section, imposes no restriction on that axis.
type BookingConfig struct {
	Daily  *DailyWindow  `json:"daily,omitempty" bson:"daily,omitempty"`
	Weekly *WeeklyWindow `json:"weekly,omitempty" bson:"weekly,omitempty"`
}

// DailyWindow bounds the time of day bookings may occupy. Both fields are
// wall-clock "HH:MM" strings; an empty field leaves that edge open.
type DailyWindow struct {
	Start string `json:"start,omitempty" bson:"start,omitempty" validate:"omitempty,time_of_day"`
	End   string `json:"end,omitempty" bson:"end,omitempty" validate:"omitempty,time_of_day"`
}

// WeeklyWindow limits the days of week on which bookings may start.
// Day indices follow time.Weekday: 0 is Sunday, 6 is Saturday.
type WeeklyWindow struct {
	AvailableDays []int `json:"available_days,omitempty" bson:"available_days,omitempty" validate:"omitempty,max=7,dive,min=0,max=6"`
}

// ResourceUpdate carries partial updates for PATCH requests. Nil pointers and
// empty strings mean "leave unchanged".
type ResourceUpdate struct {
	Name            string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	DefaultCapacity *int               `json:"default_capacity,omitempty" validate:"omitnil,min=1,max=10000"`
	BookingConfig   *BookingConfig     `json:"booking_config,omitempty"`
	Metadata        *map[string]string `json:"metadata,omitempty"`
}

// AllowsDay reports whether bookings may start on the given weekday.
func (c *BookingConfig) AllowsDay(day time.Weekday) bool {
	if c == nil || c.Weekly == nil || len(c.Weekly.AvailableDays) == 0 {
		return true
	}
	for _, d := range c.Weekly.AvailableDays {
		if d == int(day) {
			return true
		}
	}
	return false
}
