package staff

import (
	"github.com/smallbiznis/gridbill/internal/staff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("staff.service",
	fx.Provide(service.New),
)
