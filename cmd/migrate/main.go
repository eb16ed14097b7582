package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	bookingrepo "reservo/internal/bookings/repository"
	mongoMigration "reservo/internal/migrations/mongo"
	resourcerepo "reservo/internal/resources/repository"
	"reservo/pkg/config"
	"reservo/pkg/idgen"
	"reservo/pkg/model"
)

const JobName = "mongo-migration"

func main() {
	seed := flag.Bool("seed", false, "insert demo data after migrating")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Mongo migration job")
	if err := mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	if *seed {
		seedDemoData(ctx, cfg)
	}

	fmt.Println("Migration completed successfully.")
}

// seedDemoData creates one weekday-only meeting room and a pair of bookings
// for tomorrow morning, enough to exercise the API by hand.
func seedDemoData(ctx context.Context, cfg *config.Config) {
	ids := idgen.NewUUIDGenerator()
	resources := resourcerepo.NewResourceRepository(cfg)
	bookings := bookingrepo.NewBookingRepository(cfg)

	resource := &model.Resource{
		ID:              ids.Generate(),
		ProjectID:       "demo-project",
		Name:            "Demo Meeting Room",
		DefaultCapacity: 2,
		BookingConfig: &model.BookingConfig{
			Daily:  &model.DailyWindow{Start: "08:00", End: "18:00"},
			Weekly: &model.WeeklyWindow{AvailableDays: []int{1, 2, 3, 4, 5}},
		},
		Metadata:  map[string]string{"floor": "3", "seats": "8"},
		CreatedAt: time.Now().UTC(),
	}
	if err := resources.Create(ctx, resource); err != nil {
		cfg.Log.Fatal("Failed to seed demo resource", "error", err)
	}

	now := time.Now().UTC()
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	demo := []*model.Booking{
		{
			ID:         ids.Generate(),
			ProjectID:  resource.ProjectID,
			ResourceID: resource.ID,
			StartTime:  tomorrow,
			EndTime:    tomorrow.Add(time.Hour),
			Quantity:   1,
			Status:     model.StatusActive,
			CreatedAt:  now,
		},
		{
			ID:         ids.Generate(),
			ProjectID:  resource.ProjectID,
			ResourceID: resource.ID,
			StartTime:  tomorrow.Add(2 * time.Hour),
			EndTime:    tomorrow.Add(3 * time.Hour),
			Quantity:   2,
			Status:     model.StatusActive,
			CreatedAt:  now,
		},
	}
	if err := bookings.CreateMany(ctx, demo); err != nil {
		cfg.Log.Fatal("Failed to seed demo bookings", "error", err)
	}

	cfg.Log.Info("Demo data seeded",
		"resource_id", resource.ID,
		"project_id", resource.ProjectID,
		"bookings", len(demo),
	)
}
