package inventory

import (
	"github.com/smallbiznis/brewhaus/internal/inventory/repository"
	"github.com/smallbiznis/brewhaus/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
