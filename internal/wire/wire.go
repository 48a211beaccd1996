// Package wire provides dependency injection for the JAI application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/jai/internal/adapters/fs"
	"github.com/example/jai/internal/adapters/sqlite"
	"github.com/example/jai/internal/app"
	"github.com/example/jai/internal/db"
	"github.com/example/jai/internal/ports/primary"
)

var (
	repoService   primary.RepoService
	domainService primary.DomainService
	syncService   primary.SyncService
	eventService  primary.EventService
	pilotService  primary.PilotService
	toolService   primary.ToolService
	once          sync.Once
)

// RepoService returns the singleton RepoService instance.
func RepoService() primary.RepoService {
	once.Do(initServices)
	return repoService
}

// DomainService returns the singleton DomainService instance.
func DomainService() primary.DomainService {
	once.Do(initServices)
	return domainService
}

// SyncService returns the singleton SyncService instance.
func SyncService() primary.SyncService {
	once.Do(initServices)
	return syncService
}

// EventService returns the singleton EventService instance.
func EventService() primary.EventService {
	once.Do(initServices)
	return eventService
}

// PilotService returns the singleton PilotService instance.
func PilotService() primary.PilotService {
	once.Do(initServices)
	return pilotService
}

// ToolService returns the singleton ToolService instance.
func ToolService() primary.ToolService {
	once.Do(initServices)
	return toolService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	repoRepo := sqlite.NewRepoRepository(database)
	domainRepo := sqlite.NewDomainRepository(database)
	syncRunRepo := sqlite.NewSyncRunRepository(database)
	fileIndexRepo := sqlite.NewFileIndexRepository(database)
	eventRepo := sqlite.NewSotEventRepository(database)
	pilotRepo := sqlite.NewPilotRepository(database)
	toolRepo := sqlite.NewToolRepository(database)

	source := fs.NewLocalSource()

	// Create services (primary ports implementation)
	repoService = app.NewRepoService(repoRepo)
	domainService = app.NewDomainService(domainRepo, repoRepo)
	syncService = app.NewSyncService(syncRunRepo, fileIndexRepo, repoRepo, eventRepo, source)
	eventService = app.NewEventService(eventRepo, repoRepo, domainRepo)
	toolService = app.NewToolService(toolRepo)
	pilotService = app.NewPilotService(pilotRepo, toolService)
}
