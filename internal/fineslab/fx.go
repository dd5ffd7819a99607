package fineslab

import (
	"github.com/smallbiznis/gridbill/internal/fineslab/repository"
	"github.com/smallbiznis/gridbill/internal/fineslab/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fineslab.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
