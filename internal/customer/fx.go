package customer

import (
	"github.com/smallbiznis/segmenta/internal/customer/repository"
	"github.com/smallbiznis/segmenta/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
