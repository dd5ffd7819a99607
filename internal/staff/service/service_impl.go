package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	staffdomain "github.com/smallbiznis/gridbill/internal/staff/domain"
	"github.com/smallbiznis/gridbill/pkg/db"
	"github.com/smallbiznis/gridbill/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	staffrepo repository.Repository[staffdomain.Staff]
}

func New(p Params) staffdomain.Service {
	return &Service{
		log:       p.Log.Named("staff.service"),
		genID:     p.GenID,
		staffrepo: repository.ProvideStore[staffdomain.Staff](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req staffdomain.CreateRequest) (staffdomain.Staff, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return staffdomain.Staff{}, staffdomain.ErrInvalidName
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return staffdomain.Staff{}, staffdomain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	entity := &staffdomain.Staff{
		ID:          s.genID.Generate(),
		Name:        name,
		Email:       email,
		Designation: strings.TrimSpace(req.Designation),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.staffrepo.Create(ctx, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return staffdomain.Staff{}, staffdomain.ErrEmailTaken
		}
		return staffdomain.Staff{}, err
	}

	s.log.Info("staff created", zap.String("staff_id", entity.ID.String()))
	return *entity, nil
}

func (s *Service) List(ctx context.Context) ([]staffdomain.Staff, error) {
	items, err := s.staffrepo.Find(ctx, &staffdomain.Staff{}, "name ASC, id ASC")
	if err != nil {
		return nil, err
	}

	resp := make([]staffdomain.Staff, 0, len(items))
	for _, item := range items {
		resp = append(resp, *item)
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (staffdomain.Staff, error) {
	staffID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || staffID <= 0 {
		return staffdomain.Staff{}, staffdomain.ErrInvalidID
	}

	entity, err := s.staffrepo.FindOne(ctx, &staffdomain.Staff{ID: staffID})
	if err != nil {
		return staffdomain.Staff{}, err
	}
	if entity == nil {
		return staffdomain.Staff{}, staffdomain.ErrNotFound
	}
	return *entity, nil
}

func (s *Service) Update(ctx context.Context, id string, req staffdomain.UpdateRequest) (staffdomain.Staff, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return staffdomain.Staff{}, err
	}

	values := map[string]any{"updated_at": time.Now().UTC()}
	if req.Designation != nil {
		values["designation"] = strings.TrimSpace(*req.Designation)
	}
	if req.Active != nil {
		values["active"] = *req.Active
	}
	if _, err := s.staffrepo.Update(ctx, current.ID.Int64(), values); err != nil {
		return staffdomain.Staff{}, err
	}

	if req.Active != nil && !*req.Active {
		s.log.Info("staff deactivated", zap.String("staff_id", current.ID.String()))
	}
	return s.Get(ctx, id)
}

func (s *Service) Active(ctx context.Context, tx *gorm.DB, id int64) (*staffdomain.Staff, error) {
	if id <= 0 {
		return nil, staffdomain.ErrInvalidID
	}
	entity, err := s.staffrepo.WithTrx(tx).FindOne(ctx, &staffdomain.Staff{ID: snowflake.ID(id)})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, staffdomain.ErrNotFound
	}
	if !entity.Active {
		return nil, staffdomain.ErrInactive
	}
	return entity, nil
}
