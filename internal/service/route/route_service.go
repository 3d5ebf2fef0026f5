package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dhippo78/flexible-polyline/flexpolyline"
	"github.com/dhippo78/flexible-polyline/internal/model"
	pg "github.com/dhippo78/flexible-polyline/internal/postgres"
	redis_client "github.com/dhippo78/flexible-polyline/internal/redis"
	"github.com/dhippo78/flexible-polyline/internal/service/storage"
	"github.com/dhippo78/flexible-polyline/internal/util"
)

const RouteRedisKey = "route"

// ErrRouteNotFound is returned when the requested route id is unknown
var ErrRouteNotFound = errors.New("route not found")

type RouteService struct {
	storage     storage.Storage[string, *model.Route]
	initialized bool
	initMutex   sync.RWMutex
}

var (
	routeServiceInstance *RouteService
	routeServiceOnce     sync.Once
)

// GetRouteService returns the singleton instance of RouteService.
func GetRouteService() *RouteService {
	routeServiceOnce.Do(func() {
		routeServiceInstance = &RouteService{
			storage: storage.NewMemoryStorage[string, *model.Route](),
		}
	})
	return routeServiceInstance
}

// InitService initializes the service by loading data from PostgreSQL and Redis
func (s *RouteService) InitService(ctx context.Context) error {
	s.initMutex.Lock()
	defer s.initMutex.Unlock()

	if s.initialized {
		return nil
	}

	log.Println("Initializing RouteService...")
	startTime := time.Now()

	// Step 1: Load full data from PostgreSQL
	log.Println("Loading routes from PostgreSQL...")
	pgRoutes, err := s.loadAllRoutesFromPG()
	if err != nil {
		return fmt.Errorf("failed to load routes from PostgreSQL: %w", err)
	}
	log.Printf("Loaded %d routes from PostgreSQL in %v", len(pgRoutes), time.Since(startTime))

	// Step 2: Load updates from Redis (with timestamps)
	log.Println("Loading route updates from Redis...")
	redisRoutes, err := s.loadAllRoutesFromRedis(ctx)
	if err != nil {
		return fmt.Errorf("failed to load routes from Redis: %w", err)
	}
	log.Printf("Loaded %d route updates from Redis", len(redisRoutes))

	// Step 3: Merge data (Redis updates override PostgreSQL data)
	mergedCount := s.mergeRoutesIntoMemory(pgRoutes, redisRoutes)
	log.Printf("Merged %d newer routes from Redis", mergedCount)

	log.Printf("Initialization complete: %d routes in memory, took %v",
		s.storage.Count(), time.Since(startTime))

	s.initialized = true
	return nil
}

// loadAllRoutesFromPG loads all routes from PostgreSQL
func (s *RouteService) loadAllRoutesFromPG() ([]*model.Route, error) {
	db := pg.GetDB()
	var routes []*model.Route

	result := db.Find(&routes)
	if result.Error != nil {
		return nil, result.Error
	}

	return routes, nil
}

// loadAllRoutesFromRedis loads all routes from Redis
func (s *RouteService) loadAllRoutesFromRedis(ctx context.Context) (map[string]*model.Route, error) {
	client := redis_client.GetClient()

	keys, err := redis_client.ScanKeys(ctx, fmt.Sprintf("%s:*", RouteRedisKey))
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return make(map[string]*model.Route), nil
	}

	// Retrieve all routes in a single operation
	jsonData, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	routes := make(map[string]*model.Route)
	for _, data := range jsonData {
		if data == nil {
			continue
		}

		jsonStr, ok := data.(string)
		if !ok || jsonStr == "" {
			continue
		}

		route := &model.Route{}
		if err := json.Unmarshal([]byte(jsonStr), route); err != nil {
			continue
		}
		routes[route.ID] = route
	}

	return routes, nil
}

// mergeRoutesIntoMemory merges routes from PostgreSQL and Redis into memory storage
func (s *RouteService) mergeRoutesIntoMemory(pgRoutes []*model.Route, redisRoutes map[string]*model.Route) int {
	// First load all PostgreSQL routes into memory
	for _, pgRoute := range pgRoutes {
		s.storage.Set(pgRoute.ID, pgRoute)
	}

	// Override with Redis data where available (more recent)
	mergedCount := 0
	for id, redisRoute := range redisRoutes {
		existingRoute, exists := s.storage.Get(id)
		if !exists || redisRoute.UpdatedAt.After(existingRoute.UpdatedAt) {
			if exists {
				// Preserve fields that are not stored in the Redis payload
				redisRoute.CreatedAt = existingRoute.CreatedAt
				redisRoute.DeletedAt = existingRoute.DeletedAt
				redisRoute.Points = existingRoute.Points
			}
			s.storage.Set(id, redisRoute)
			mergedCount++
		}
	}

	// The merge marks every loaded route dirty; freshly loaded data needs no flush
	ids := make([]string, 0, s.storage.Count())
	s.storage.ForEach(func(id string, _ *model.Route) bool {
		ids = append(ids, id)
		return true
	})
	s.storage.ClearDirty(ids)

	return mergedCount
}

// newRouteFromPolyline validates the encoded polyline and builds a route with
// its decoded geometry and derived stats.
func newRouteFromPolyline(name, encoded string) (*model.Route, error) {
	points, err := flexpolyline.Decode(encoded)
	if err != nil {
		return nil, err
	}
	thirdDim, err := flexpolyline.ThirdDimensionOf(encoded)
	if err != nil {
		return nil, err
	}

	return &model.Route{
		ID:             util.ShortUUID(),
		Name:           name,
		Polyline:       strings.TrimSpace(encoded),
		ThirdDimension: int(thirdDim),
		LengthMeters:   util.RouteLength(points),
		PointCount:     len(points),
		UpdatedAt:      time.Now(),
		Points:         points,
	}, nil
}

// ImportRoute decodes the polyline, stores the resulting route and returns it.
// A malformed polyline fails the import with the decoder's error.
func (s *RouteService) ImportRoute(name, encoded string) (*model.Route, error) {
	route, err := newRouteFromPolyline(name, encoded)
	if err != nil {
		return nil, err
	}

	s.storage.Set(route.ID, route)
	log.Printf("Imported route %s (%d points, %.1f m)", route.ID, route.PointCount, route.LengthMeters)
	return route, nil
}

// GetRoute returns a route by id with its decoded geometry available.
func (s *RouteService) GetRoute(id string) (*model.Route, error) {
	route, exists := s.storage.Get(id)
	if !exists {
		return nil, ErrRouteNotFound
	}

	// Geometry is dropped from persisted payloads; rebuild it on first access
	if route.Points == nil {
		points, err := flexpolyline.Decode(route.Polyline)
		if err != nil {
			return nil, fmt.Errorf("stored polyline for route %s: %w", id, err)
		}
		route.Points = points
	}

	return route, nil
}

// ListRoutes returns all stored routes
func (s *RouteService) ListRoutes() []*model.Route {
	return s.storage.GetAllValues()
}

// SampleRoute returns the route geometry resampled at the given interval in meters
func (s *RouteService) SampleRoute(id string, intervalMeters float64) ([]flexpolyline.Point, error) {
	route, err := s.GetRoute(id)
	if err != nil {
		return nil, err
	}
	return util.SampleRoute(route.Points, intervalMeters), nil
}

// DeleteRoute removes a route from memory and from the persistent stores
func (s *RouteService) DeleteRoute(id string) error {
	if !s.storage.Delete(id) {
		return ErrRouteNotFound
	}

	if redis_client.GetClient() != nil {
		if err := redis_client.Delete(fmt.Sprintf("%s:%s", RouteRedisKey, id)); err != nil {
			log.Printf("Error deleting route %s from Redis: %v", id, err)
		}
	}
	if db := pg.GetDB(); db != nil {
		if err := db.Delete(&model.Route{}, "id = ?", id).Error; err != nil {
			log.Printf("Error deleting route %s from PostgreSQL: %v", id, err)
		}
	}

	return nil
}

// SaveDirtyRoutesToRedis saves modified routes to Redis
func (s *RouteService) SaveDirtyRoutesToRedis() error {
	dirtyRoutes := s.storage.GetDirty()
	if len(dirtyRoutes) == 0 {
		return nil
	}

	client := redis_client.GetClient()
	ctx := context.Background()
	pipe := client.Pipeline()

	// Collect keys to clear flags after successful save
	keys := make([]string, 0, len(dirtyRoutes))

	for id, route := range dirtyRoutes {
		routeKey := fmt.Sprintf("%s:%s", RouteRedisKey, id)
		routeJSON, err := json.Marshal(route.ToLightVersion())
		if err != nil {
			return err
		}
		pipe.Set(ctx, routeKey, routeJSON, 0)
		keys = append(keys, id)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		return err
	}

	// Clear flags only after successful save
	s.storage.ClearDirty(keys)

	log.Printf("Saved %d routes to Redis", len(dirtyRoutes))
	return nil
}

// SaveAllRoutesToPG saves all routes to PostgreSQL in batches
func (s *RouteService) SaveAllRoutesToPG() error {
	allRoutes := s.storage.GetAllValues()
	if len(allRoutes) == 0 {
		return nil
	}

	db := pg.GetDB()
	batchSize := 1000

	// Process in batches to avoid overwhelming the database
	for i := 0; i < len(allRoutes); i += batchSize {
		end := i + batchSize
		if end > len(allRoutes) {
			end = len(allRoutes)
		}

		batch := allRoutes[i:end]

		err := db.Transaction(func(tx *gorm.DB) error {
			for _, route := range batch {
				if result := tx.Save(route); result.Error != nil {
					return result.Error
				}
			}
			return nil
		})

		if err != nil {
			return err
		}

		log.Printf("Saved batch of %d routes to PostgreSQL (%d/%d)",
			len(batch), end, len(allRoutes))
	}

	return nil
}
