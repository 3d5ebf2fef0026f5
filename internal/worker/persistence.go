package worker

import (
	"log"
	"time"

	"github.com/dhippo78/flexible-polyline/internal/config"
	"github.com/dhippo78/flexible-polyline/internal/service/route"
)

// StartPersistenceWorkers starts the workers that flush route data to Redis
// and PostgreSQL on their configured intervals
func StartPersistenceWorkers() {
	routeService := route.GetRouteService()

	redisTicker := time.NewTicker(config.RedisBackupInterval)
	go func() {
		for range redisTicker.C {
			if err := routeService.SaveDirtyRoutesToRedis(); err != nil {
				log.Printf("Error saving to Redis: %v", err)
			}
		}
	}()

	pgTicker := time.NewTicker(config.PostgresBackupInterval)
	go func() {
		for range pgTicker.C {
			if err := routeService.SaveAllRoutesToPG(); err != nil {
				log.Printf("Error saving to PostgreSQL: %v", err)
			}
		}
	}()

	log.Println("Persistence workers started with intervals:",
		config.RedisBackupInterval, config.PostgresBackupInterval)
}
