package catalog

import (
	"github.com/smallbiznis/brewhaus/internal/catalog/cache"
	"github.com/smallbiznis/brewhaus/internal/catalog/repository"
	"github.com/smallbiznis/brewhaus/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(cache.New),
	fx.Provide(service.New),
)
