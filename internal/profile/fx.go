package profile

import (
	"github.com/smallbiznis/brewhaus/internal/profile/repository"
	"github.com/smallbiznis/brewhaus/internal/profile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
