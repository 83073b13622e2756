package businessflow

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/config"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/redis/go-redis/v9"
)

// availabilityCacheTTL keeps availability answers fresh enough; stock moves
// at approval time, so the snapshot is advisory anyway
const availabilityCacheTTL = 30 * time.Second

// CatalogFlow defines read operations over the hardware catalog
type CatalogFlow interface {
	Names(ctx context.Context, metadata *ClientMetadata) (*dto.CatalogNamesResponse, error)
	Models(ctx context.Context, name string, metadata *ClientMetadata) (*dto.CatalogModelsResponse, error)
	Availability(ctx context.Context, name string, quantity int64, metadata *ClientMetadata) (*dto.AvailabilityResponse, error)
	FreeUnits(ctx context.Context, name string, model *string, metadata *ClientMetadata) (*dto.FreeUnitsResponse, error)
}

// CatalogFlowImpl implements CatalogFlow
type CatalogFlowImpl struct {
	assetRepo      repository.AssetTypeRepository
	allocationRepo repository.AllocationRepository
	cacheConfig    *config.CacheConfig
	rc             *redis.Client
}

func NewCatalogFlow(
	assetRepo repository.AssetTypeRepository,
	allocationRepo repository.AllocationRepository,
	cacheConfig *config.CacheConfig,
	rc *redis.Client,
) CatalogFlow {
	return &CatalogFlowImpl{
		assetRepo:      assetRepo,
		allocationRepo: allocationRepo,
		cacheConfig:    cacheConfig,
		rc:             rc,
	}
}

func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// cacheGet reads and unmarshals a cached value. Any failure is treated as a
// miss so the caller falls through to the database.
func (f *CatalogFlowImpl) cacheGet(ctx context.Context, key string, out any) bool {
	if f.rc == nil {
		return false
	}
	bs, err := f.rc.Get(ctx, redisKey(*f.cacheConfig, key)).Bytes()
	if err != nil || len(bs) == 0 {
		return false
	}
	return json.Unmarshal(bs, out) == nil
}

// cacheSet stores a value best-effort
func (f *CatalogFlowImpl) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if f.rc == nil {
		return
	}
	if bs, err := json.Marshal(value); err == nil {
		_ = f.rc.Set(ctx, redisKey(*f.cacheConfig, key), bs, ttl).Err()
	}
}

func (f *CatalogFlowImpl) Names(ctx context.Context, metadata *ClientMetadata) (*dto.CatalogNamesResponse, error) {
	var cached []string
	if f.cacheGet(ctx, utils.CatalogNamesCacheKey, &cached) {
		return &dto.CatalogNamesResponse{
			Message: "Catalog names retrieved from cache",
			Names:   cached,
		}, nil
	}

	names, err := f.assetRepo.DistinctNames(ctx)
	if err != nil {
		return nil, NewBusinessError("CATALOG_NAMES_FAILED", "Failed to list catalog names", err)
	}

	f.cacheSet(ctx, utils.CatalogNamesCacheKey, names, f.cacheConfig.DefaultTTL)

	return &dto.CatalogNamesResponse{
		Message: "Catalog names retrieved successfully",
		Names:   names,
	}, nil
}

func (f *CatalogFlowImpl) Models(ctx context.Context, name string, metadata *ClientMetadata) (*dto.CatalogModelsResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewBusinessError("NAME_REQUIRED", "hardware name is required", nil)
	}

	key := utils.CatalogModelsCacheKey + name
	var cached []string
	if f.cacheGet(ctx, key, &cached) {
		return &dto.CatalogModelsResponse{
			Message: "Models retrieved from cache",
			Name:    name,
			Models:  cached,
		}, nil
	}

	modelNames, err := f.assetRepo.ModelsByName(ctx, name)
	if err != nil {
		return nil, NewBusinessError("CATALOG_MODELS_FAILED", "Failed to list models", err)
	}

	f.cacheSet(ctx, key, modelNames, f.cacheConfig.DefaultTTL)

	return &dto.CatalogModelsResponse{
		Message: "Models retrieved successfully",
		Name:    name,
		Models:  modelNames,
	}, nil
}

func (f *CatalogFlowImpl) Availability(ctx context.Context, name string, quantity int64, metadata *ClientMetadata) (*dto.AvailabilityResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewBusinessError("NAME_REQUIRED", "hardware name is required", nil)
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	key := utils.AvailabilityCacheKey + name
	var total int64
	if !f.cacheGet(ctx, key, &total) {
		var err error
		total, err = f.assetRepo.TotalQuantityByName(ctx, name)
		if err != nil {
			return nil, NewBusinessError("AVAILABILITY_CHECK_FAILED", "Failed to check availability", err)
		}
		f.cacheSet(ctx, key, total, availabilityCacheTTL)
	}

	return &dto.AvailabilityResponse{
		Message:    "Availability retrieved successfully",
		Name:       name,
		Requested:  quantity,
		Available:  total,
		Sufficient: total >= quantity,
	}, nil
}

// FreeUnits reports the units of a name+model pool not currently held by an
// Assigned allocation. Always live; allocations move too fast to cache.
func (f *CatalogFlowImpl) FreeUnits(ctx context.Context, name string, model *string, metadata *ClientMetadata) (*dto.FreeUnitsResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewBusinessError("NAME_REQUIRED", "hardware name is required", nil)
	}

	units, err := f.assetRepo.UnitsByNameModel(ctx, name, model)
	if err != nil {
		return nil, NewBusinessError("FREE_UNITS_FAILED", "Failed to list units", err)
	}

	ids := make([]string, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.AssetID)
	}
	taken, err := f.allocationRepo.AssignedAssetIDs(ctx, ids)
	if err != nil {
		return nil, NewBusinessError("FREE_UNITS_FAILED", "Failed to list assigned units", err)
	}

	free := make([]string, 0, len(units))
	for _, u := range units {
		if _, held := taken[u.AssetID]; !held {
			free = append(free, u.AssetID)
		}
	}

	return &dto.FreeUnitsResponse{
		Message:   "Free units retrieved successfully",
		Name:      name,
		Model:     model,
		FreeCount: len(free),
		FreeUnits: free,
	}, nil
}
