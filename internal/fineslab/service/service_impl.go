package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	finedomain "github.com/smallbiznis/gridbill/internal/fineslab/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  finedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  finedomain.Repository
}

func New(p Params) finedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("fineslab.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]finedomain.FineSlab, error) {
	return s.Schedule(ctx, s.db)
}

func (s *Service) Create(ctx context.Context, req finedomain.CreateRequest) (*finedomain.FineSlab, error) {
	now := time.Now().UTC()
	entity := &finedomain.FineSlab{
		ID:         s.genID.Generate(),
		DaysFrom:   req.DaysFrom,
		DaysTo:     req.DaysTo,
		FineAmount: req.FineAmount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := finedomain.ValidateSlab(*entity); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockAll(ctx, tx)
		if err != nil {
			return err
		}
		if err := finedomain.ValidateSchedule(append(current, *entity)); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("fine slab created", zap.String("range", entity.Label()))
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req finedomain.UpdateRequest) (*finedomain.FineSlab, error) {
	slabID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, finedomain.ErrInvalidID
	}

	var updated *finedomain.FineSlab
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockAll(ctx, tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range current {
			if current[i].ID == slabID {
				idx = i
			}
		}
		if idx < 0 {
			return finedomain.ErrNotFound
		}

		entity := current[idx]
		if req.DaysFrom != nil {
			entity.DaysFrom = *req.DaysFrom
		}
		if req.DaysTo != nil {
			entity.DaysTo = *req.DaysTo
		}
		if req.FineAmount != nil {
			entity.FineAmount = *req.FineAmount
		}
		entity.UpdatedAt = time.Now().UTC()

		current[idx] = entity
		if err := finedomain.ValidateSchedule(current); err != nil {
			return err
		}
		updated = &entity
		return s.repo.Update(ctx, tx, &entity)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	slabID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return finedomain.ErrInvalidID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.LockAll(ctx, tx)
		if err != nil {
			return err
		}
		remaining := make([]finedomain.FineSlab, 0, len(current))
		for _, slab := range current {
			if slab.ID != slabID {
				remaining = append(remaining, slab)
			}
		}
		if len(remaining) == len(current) {
			return finedomain.ErrNotFound
		}
		if err := finedomain.ValidateSchedule(remaining); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, slabID)
	})
}

func (s *Service) Schedule(ctx context.Context, db *gorm.DB) ([]finedomain.FineSlab, error) {
	if db == nil {
		db = s.db
	}
	items, err := s.repo.List(ctx, db)
	if err != nil {
		return nil, err
	}
	finedomain.SortSlabs(items)
	return items, nil
}
