package staff

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/auth"
	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/db"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/security"
)

const minPasswordLength = 8

type service struct {
	repo   Repository
	jwtCfg config.JWTConfig
	now    func() time.Time
}

// NewService builds the staff service.
func NewService(repo Repository, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, now: time.Now}, nil
}

// Login verifies credentials and mints an access token. Unknown emails and
// bad passwords return the same error so the endpoint does not leak which
// accounts exist.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	employee, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up employee")
	}
	if !employee.Active {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !security.VerifyPassword(employee.PasswordHash, input.Password) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		EmployeeID:     employee.ID,
		OrganizationID: employee.OrganizationID,
		Role:           employee.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		Employee:  FromModel(employee),
	}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.Employee, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email address")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	employee := &models.Employee{
		OrganizationID: organizationID,
		Name:           strings.TrimSpace(input.Name),
		Email:          email,
		PasswordHash:   hash,
		Role:           input.Role,
		Active:         true,
	}
	created, err := s.repo.Create(ctx, employee)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating employee")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, organizationID, employeeID uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, organizationID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading employee")
	}
	return employee, nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing employees")
	}
	return employees, nil
}

func (s *service) Deactivate(ctx context.Context, organizationID, employeeID uuid.UUID) error {
	if _, err := s.Get(ctx, organizationID, employeeID); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, employeeID, map[string]any{"active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating employee")
	}
	return nil
}
