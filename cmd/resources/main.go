package main

import (
	"reservo/internal/resources/handler"
	"reservo/internal/resources/repository"
	"reservo/internal/resources/service"
	"reservo/internal/resources/validator"
	"reservo/pkg/app"
	"reservo/pkg/config"
	"reservo/pkg/idgen"
)

const ServiceName = "resources"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting resources service")
	resourceService := initServices(cfg)

	serverApp := app.NewApplication(cfg, handler.NewResourceHandler(resourceService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ResourceService {
	resourceValidator, err := validator.NewResourceValidator()
	if err != nil {
		cfg.Log.Fatal("Failed to build resource validator", "error", err)
	}

	resourceService := service.NewResourceService(
		cfg,
		repository.NewResourceRepository(cfg),
		resourceValidator,
		idgen.NewUUIDGenerator(),
	)

	cfg.Log.Info("Resource service initialized", "database", cfg.MongoDatabaseName)
	return resourceService
}
