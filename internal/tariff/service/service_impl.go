package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gridbill/internal/clock"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  tariffdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  tariffdomain.Repository
}

func New(p Params) tariffdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tariff.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context, tariffType string) ([]tariffdomain.Response, error) {
	var (
		items []tariffdomain.TariffSlab
		err   error
	)
	if strings.TrimSpace(tariffType) == "" {
		items, err = s.repo.List(ctx, s.db)
	} else {
		t, parseErr := tariffdomain.ParseTariffType(tariffType)
		if parseErr != nil {
			return nil, parseErr
		}
		items, err = s.repo.ListByType(ctx, s.db, t)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]tariffdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req tariffdomain.CreateRequest) (*tariffdomain.Response, error) {
	tariffType, err := tariffdomain.ParseTariffType(req.TariffType)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	entity := &tariffdomain.TariffSlab{
		ID:         s.genID.Generate(),
		TariffType: tariffType,
		UnitFrom:   req.UnitFrom,
		UnitTo:     unitToOrOpen(req.UnitTo),
		Rate:       req.Rate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tariffdomain.ValidateSlab(*entity); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockByType(ctx, tx, tariffType)
		if err != nil {
			return err
		}
		if err := tariffdomain.ValidateSchedule(append(current, *entity)); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("tariff slab created",
		zap.String("tariff_type", string(tariffType)),
		zap.String("range", entity.Label()),
	)
	resp := toResponse(entity)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req tariffdomain.UpdateRequest) (*tariffdomain.Response, error) {
	slabID, err := parseID(id)
	if err != nil {
		return nil, tariffdomain.ErrInvalidID
	}

	var updated *tariffdomain.TariffSlab
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := s.repo.FindByID(ctx, tx, slabID)
		if err != nil {
			return err
		}
		if entity == nil {
			return tariffdomain.ErrNotFound
		}

		if req.UnitFrom != nil {
			entity.UnitFrom = *req.UnitFrom
		}
		if req.UnitTo != nil {
			entity.UnitTo = unitToOrOpen(req.UnitTo)
		}
		if req.Rate != nil {
			entity.Rate = *req.Rate
		}
		entity.UpdatedAt = s.clock.Now().UTC()
		if err := tariffdomain.ValidateSlab(*entity); err != nil {
			return err
		}

		current, err := s.repo.LockByType(ctx, tx, entity.TariffType)
		if err != nil {
			return err
		}
		for i := range current {
			if current[i].ID == entity.ID {
				current[i] = *entity
			}
		}
		if err := tariffdomain.ValidateSchedule(current); err != nil {
			return err
		}

		updated = entity
		return s.repo.Update(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(updated)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	slabID, err := parseID(id)
	if err != nil {
		return tariffdomain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := s.repo.FindByID(ctx, tx, slabID)
		if err != nil {
			return err
		}
		if entity == nil {
			return tariffdomain.ErrNotFound
		}

		current, err := s.repo.LockByType(ctx, tx, entity.TariffType)
		if err != nil {
			return err
		}
		remaining := make([]tariffdomain.TariffSlab, 0, len(current))
		for _, slab := range current {
			if slab.ID != entity.ID {
				remaining = append(remaining, slab)
			}
		}
		if err := tariffdomain.ValidateSchedule(remaining); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, entity.ID)
	})
}

func (s *Service) SlabsFor(ctx context.Context, db *gorm.DB, tariffType tariffdomain.TariffType) ([]tariffdomain.TariffSlab, error) {
	if db == nil {
		db = s.db
	}
	items, err := s.repo.ListByType(ctx, db, tariffType)
	if err != nil {
		return nil, err
	}
	tariffdomain.SortSlabs(items)
	return items, nil
}

// unitToOrOpen leaves an out-of-range bound in place for ValidateSlab to reject.
func unitToOrOpen(v *int64) int64 {
	if v == nil {
		return tariffdomain.OpenEndedUnitTo
	}
	return *v
}

func toResponse(t *tariffdomain.TariffSlab) tariffdomain.Response {
	return tariffdomain.Response{
		ID:         t.ID.String(),
		TariffType: t.TariffType,
		Range:      t.Label(),
		UnitFrom:   t.UnitFrom,
		UnitTo:     t.UnitTo,
		OpenEnded:  t.IsOpenEnded(),
		Rate:       t.Rate,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
