package main

import (
	"log"
	"time"

	"office_records_go/config"
	"office_records_go/db"
	"office_records_go/handlers"
	"office_records_go/middleware"
	"office_records_go/models"
	"office_records_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Office{},
		&models.Record{},
		&models.TrashEntry{},
		&models.User{},
		&models.Session{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The distinguished CENTRAL office always exists
	if err := services.RegisterOffice(db.DB, models.CentralOfficeKey, models.CentralOfficeKey); err != nil {
		log.Fatalf("Failed to register CENTRAL office: %v", err)
	}

	// Export archive (local dir or R2)
	services.InitializeArchive(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.POST("/api/login", handlers.LoginHandler)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/logout", handlers.LogoutHandler)
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Offices
		api.GET("/offices", handlers.ListOfficesHandler)
		api.POST("/offices", handlers.CreateOfficeHandler)
		api.PUT("/offices/:key", handlers.RenameOfficeHandler)
		api.DELETE("/offices/:key", handlers.DeleteOfficeHandler)

		// Records (office-partitioned; :key may be ALL for listings)
		api.POST("/records", handlers.CreateRecordHandler)
		api.GET("/offices/:key/records", handlers.ListRecordsHandler)
		api.GET("/offices/:key/records/:id", handlers.GetRecordHandler)
		api.PUT("/offices/:key/records/:id", handlers.UpdateRecordHandler)
		api.DELETE("/offices/:key/records/:id", handlers.DeleteRecordHandler)
		api.POST("/offices/:key/records/delete-batch", handlers.DeleteRecordsBatchHandler)
		api.POST("/offices/:key/records/:id/migrate", handlers.MigrateRecordHandler)
		api.POST("/offices/:key/records/migrate-batch", handlers.MigrateRecordsBatchHandler)

		// Trash
		api.GET("/trash", handlers.ListTrashHandler)
		api.POST("/trash/:id/restore", handlers.RestoreTrashHandler)
		api.POST("/trash/restore-batch", handlers.RestoreTrashBatchHandler)

		// Permanent purge is reserved for ADMIN
		purgeRoutes := api.Group("/trash")
		purgeRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			purgeRoutes.DELETE("/:id", handlers.PurgeTrashHandler)
			purgeRoutes.POST("/purge-batch", handlers.PurgeTrashBatchHandler)
		}

		// Exports (read-only snapshots; office=ALL aggregates every office)
		api.GET("/export/csv", handlers.ExportCSVHandler)
		api.GET("/export/xlsx", handlers.ExportXLSXHandler)
		api.GET("/export/pdf", handlers.ExportPDFHandler)

		// Archived export snapshots (ADMIN only)
		archiveRoutes := api.Group("/exports")
		archiveRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			archiveRoutes.GET("/*", handlers.GetArchivedExportHandler)
			archiveRoutes.DELETE("/*", handlers.DeleteArchivedExportHandler)
		}
	}

	// Clean up expired sessions every hour
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
