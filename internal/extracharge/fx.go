package extracharge

import (
	"github.com/smallbiznis/gridbill/internal/extracharge/repository"
	"github.com/smallbiznis/gridbill/internal/extracharge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("extracharge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
