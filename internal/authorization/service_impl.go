package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/smallbiznis/gridbill/internal/authctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer keeps policies in the casbin_rule table so operators can grant
// extra permissions without a deploy.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	return newEnforcer(adapter)
}

// NewMemoryEnforcer holds the default policies in memory only.
func NewMemoryEnforcer() (*casbin.SyncedEnforcer, error) {
	return newEnforcer(nil)
}

func newEnforcer(adapter persist.Adapter) (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	var enforcer *casbin.SyncedEnforcer
	if adapter == nil {
		enforcer, err = casbin.NewSyncedEnforcer(m)
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m, adapter)
	}
	if err != nil {
		return nil, err
	}

	if adapter != nil {
		enforcer.EnableAutoSave(true)
		if err := enforcer.LoadPolicy(); err != nil {
			return nil, err
		}
	}
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	if err := enforcer.BuildRoleLinks(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, principal authctx.Principal, object string, action string) error {
	if _, ok := authctx.ParseRole(string(principal.Role)); !ok {
		return ErrUnauthenticated
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(roleSubject(principal.Role), object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Info("authorization denied",
			zap.String("role", string(principal.Role)),
			zap.String("actor_id", principal.ActorID()),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func roleSubject(role authctx.Role) string {
	return "role:" + string(role)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Reference data is readable by every signed-in role.
		{"role:customer", ObjectTariff, ActionView},
		{"role:customer", ObjectExtraCharge, ActionView},
		{"role:customer", ObjectFineSlab, ActionView},
		{"role:customer", ObjectQuote, ActionView},
		{"role:customer", ObjectBill, ActionView},
		{"role:customer", ObjectPayment, ActionPay},

		{"role:staff", ObjectTariff, ActionView},
		{"role:staff", ObjectExtraCharge, ActionView},
		{"role:staff", ObjectFineSlab, ActionView},
		{"role:staff", ObjectQuote, ActionView},
		{"role:staff", ObjectBill, ActionView},
		{"role:staff", ObjectReading, ActionView},
		{"role:staff", ObjectReading, ActionCreate},
		{"role:staff", ObjectReading, ActionUpdate},

		{"role:admin", ObjectTariff, ActionCreate},
		{"role:admin", ObjectTariff, ActionUpdate},
		{"role:admin", ObjectTariff, ActionDelete},
		{"role:admin", ObjectExtraCharge, ActionUpdate},
		{"role:admin", ObjectFineSlab, ActionCreate},
		{"role:admin", ObjectFineSlab, ActionUpdate},
		{"role:admin", ObjectFineSlab, ActionDelete},
		{"role:admin", ObjectCustomer, ActionView},
		{"role:admin", ObjectCustomer, ActionApprove},
		{"role:admin", ObjectStaff, ActionView},
		{"role:admin", ObjectStaff, ActionCreate},
		{"role:admin", ObjectStaff, ActionUpdate},
	}
	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}

	// Admins can do everything staff can.
	has, err := enforcer.HasGroupingPolicy("role:admin", "role:staff")
	if err != nil {
		return err
	}
	if !has {
		if _, err := enforcer.AddGroupingPolicy("role:admin", "role:staff"); err != nil {
			return err
		}
	}
	return nil
}
