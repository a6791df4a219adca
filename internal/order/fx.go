package order

import (
	"github.com/smallbiznis/brewhaus/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(service.New),
)
