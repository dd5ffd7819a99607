package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/gridbill/internal/customer/domain"
	tariffdomain "github.com/smallbiznis/gridbill/internal/tariff/domain"
	"github.com/smallbiznis/gridbill/pkg/db"
	"github.com/smallbiznis/gridbill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  customerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  customerdomain.Repository
}

func New(p Params) customerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Signup(ctx context.Context, req customerdomain.SignupRequest) (customerdomain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return customerdomain.Customer{}, customerdomain.ErrInvalidName
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return customerdomain.Customer{}, err
	}

	tariffType := tariffdomain.TariffDomestic
	if strings.TrimSpace(req.TariffType) != "" {
		tariffType, err = tariffdomain.ParseTariffType(req.TariffType)
		if err != nil {
			return customerdomain.Customer{}, err
		}
	}

	now := time.Now().UTC()
	entity := &customerdomain.Customer{
		ID:         s.genID.Generate(),
		Name:       name,
		Email:      email,
		Phone:      strings.TrimSpace(req.Phone),
		Address:    strings.TrimSpace(req.Address),
		TariffType: tariffType,
		Status:     customerdomain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return customerdomain.Customer{}, customerdomain.ErrEmailTaken
		}
		return customerdomain.Customer{}, err
	}

	s.log.Info("customer signed up",
		zap.String("customer_id", entity.ID.String()),
		zap.String("tariff_type", string(entity.TariffType)),
	)
	return *entity, nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListCustomerRequest) (customerdomain.ListCustomerResponse, error) {
	filter := customerdomain.ListCustomerFilter{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		parsed, err := parseStatus(status)
		if err != nil {
			return customerdomain.ListCustomerResponse{}, err
		}
		filter.Status = parsed
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil || cursor.ID <= 0 {
			return customerdomain.ListCustomerResponse{}, customerdomain.ErrInvalidPageToken
		}
		filter.BeforeID = cursor.ID
	}

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return customerdomain.ListCustomerResponse{}, err
	}

	items, pageInfo, err := pagination.Page(items, page.Limit(), func(c *customerdomain.Customer) pagination.Cursor {
		return pagination.Cursor{ID: c.ID.Int64()}
	})
	if err != nil {
		return customerdomain.ListCustomerResponse{}, err
	}

	customers := make([]customerdomain.Customer, 0, len(items))
	for _, c := range items {
		customers = append(customers, *c)
	}
	return customerdomain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (customerdomain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return customerdomain.Customer{}, customerdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return customerdomain.Customer{}, err
	}
	if entity == nil {
		return customerdomain.Customer{}, customerdomain.ErrNotFound
	}
	return *entity, nil
}

func (s *Service) Approve(ctx context.Context, id string, req customerdomain.ApproveRequest) (customerdomain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return customerdomain.Customer{}, customerdomain.ErrInvalidID
	}

	var tariffType tariffdomain.TariffType
	if strings.TrimSpace(req.TariffType) != "" {
		tariffType, err = tariffdomain.ParseTariffType(req.TariffType)
		if err != nil {
			return customerdomain.Customer{}, err
		}
	}

	var approved *customerdomain.Customer
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entity, err := s.repo.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if entity == nil {
			return customerdomain.ErrNotFound
		}
		if entity.Status != customerdomain.StatusPending {
			return customerdomain.ErrNotPending
		}

		meter := strings.ToUpper(strings.TrimSpace(req.MeterNumber))
		if meter == "" {
			meter = s.meterNumber()
		}
		now := time.Now().UTC()
		entity.Status = customerdomain.StatusApproved
		entity.MeterNumber = &meter
		entity.ApprovedAt = &now
		entity.UpdatedAt = now
		if tariffType != "" {
			entity.TariffType = tariffType
		}

		ok, err := s.repo.UpdateStatus(ctx, tx, entity, customerdomain.StatusPending)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return customerdomain.ErrMeterNumberTaken
			}
			return err
		}
		if !ok {
			return customerdomain.ErrNotPending
		}
		approved = entity
		return nil
	})
	if err != nil {
		return customerdomain.Customer{}, err
	}

	s.log.Info("customer approved",
		zap.String("customer_id", approved.ID.String()),
		zap.String("meter_number", *approved.MeterNumber),
		zap.String("tariff_type", string(approved.TariffType)),
	)
	return *approved, nil
}

func (s *Service) Reject(ctx context.Context, id string) (customerdomain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return customerdomain.Customer{}, customerdomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return customerdomain.Customer{}, err
	}
	if entity == nil {
		return customerdomain.Customer{}, customerdomain.ErrNotFound
	}
	if entity.Status != customerdomain.StatusPending {
		return customerdomain.Customer{}, customerdomain.ErrNotPending
	}

	entity.Status = customerdomain.StatusRejected
	entity.UpdatedAt = time.Now().UTC()
	ok, err := s.repo.UpdateStatus(ctx, s.db, entity, customerdomain.StatusPending)
	if err != nil {
		return customerdomain.Customer{}, err
	}
	if !ok {
		return customerdomain.Customer{}, customerdomain.ErrNotPending
	}

	s.log.Info("customer rejected", zap.String("customer_id", entity.ID.String()))
	return *entity, nil
}

func (s *Service) Load(ctx context.Context, tx *gorm.DB, id int64) (*customerdomain.Customer, error) {
	if tx == nil {
		tx = s.db
	}
	entity, err := s.repo.FindByID(ctx, tx, snowflake.ID(id))
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, customerdomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) meterNumber() string {
	return fmt.Sprintf("MTR-%s", s.genID.Generate().Base36())
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if email == "" {
		return "", customerdomain.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", customerdomain.ErrInvalidEmail
	}
	return email, nil
}

func parseStatus(value string) (customerdomain.Status, error) {
	switch customerdomain.Status(strings.ToLower(value)) {
	case customerdomain.StatusPending:
		return customerdomain.StatusPending, nil
	case customerdomain.StatusApproved:
		return customerdomain.StatusApproved, nil
	case customerdomain.StatusRejected:
		return customerdomain.StatusRejected, nil
	default:
		return "", customerdomain.ErrInvalidStatus
	}
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
