package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type OwnerInput struct {
	Name  string
	Phone string
	Email string
}

func (s *Service) CreateOwner(ctx context.Context, accountID string, in OwnerInput) (Owner, error) {
	if strings.TrimSpace(accountID) == "" {
		return Owner{}, fmt.Errorf("%w: account required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return Owner{}, fmt.Errorf("%w: name required", ErrInvalidInput)
	}

	now := s.now()
	o := Owner{
		ID:        uuid.NewString(),
		AccountID: strings.TrimSpace(accountID),
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.PutOwner(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) GetOwner(ctx context.Context, id string) (Owner, error) {
	if strings.TrimSpace(id) == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetOwner(ctx, id)
}

type AccountInput struct {
	Name       string
	Type       string
	DoctorName string
	ClinicName string
	Contact    string
	TemplateID string
}

// PutAccount crea o reemplaza el perfil de la cuenta.
func (s *Service) PutAccount(ctx context.Context, accountID string, in AccountInput) (Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return Account{}, fmt.Errorf("%w: account required", ErrInvalidInput)
	}
	typ := AccountDoctor
	if strings.TrimSpace(in.Type) != "" {
		t, ok := ParseAccountType(in.Type)
		if !ok {
			return Account{}, fmt.Errorf("%w: type %q", ErrInvalidInput, in.Type)
		}
		typ = t
	}

	a := Account{
		ID:         strings.TrimSpace(accountID),
		Name:       strings.TrimSpace(in.Name),
		Type:       typ,
		DoctorName: strings.TrimSpace(in.DoctorName),
		ClinicName: strings.TrimSpace(in.ClinicName),
		Contact:    strings.TrimSpace(in.Contact),
		TemplateID: strings.ToUpper(strings.TrimSpace(in.TemplateID)),
		UpdatedAt:  s.now(),
	}
	if err := s.repo.PutAccount(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Service) GetAccount(ctx context.Context, id string) (Account, error) {
	if strings.TrimSpace(id) == "" {
		return Account{}, ErrInvalidInput
	}
	return s.repo.GetAccount(ctx, id)
}
