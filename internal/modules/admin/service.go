package admin

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"staybook/internal/domain"
	"staybook/internal/pkg/crypto"
	"staybook/internal/repository"
)

const bcryptCost = 12

type Service struct {
	users    userStore
	settings settingStore
	supplies supplyStore
	props    statsSource
	bookings bookingStatsSource
	cipher   *crypto.Cipher
	loggerf  func(format string, args ...interface{})
}

func NewService(users userStore, settings settingStore, supplies supplyStore, props statsSource, bookings bookingStatsSource, cipher *crypto.Cipher, loggerf func(format string, args ...interface{})) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Service{
		users:    users,
		settings: settings,
		supplies: supplies,
		props:    props,
		bookings: bookings,
		cipher:   cipher,
		loggerf:  loggerf,
	}
}

// CreateUser provisions a staff account. Admins can create owners and
// cleaners; admin accounts are seeded, never created through the API, and
// clients register themselves.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	role := domain.Role(req.Role)
	if role != domain.RoleOwner && role != domain.RoleCleaner {
		return nil, ErrRoleNotAllowed
	}
	if len(req.Password) < 8 {
		return nil, ErrValidation
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=staff account created user_id=%d role=%s", u.ID, u.Role)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// ListSettings returns settings with encrypted values decrypted for display.
// A value that fails to decrypt (key rotated, row tampered) comes back empty
// rather than failing the whole listing.
func (s *Service) ListSettings(ctx context.Context, category string) ([]domain.Setting, error) {
	var (
		out []domain.Setting
		err error
	)
	if category != "" {
		out, err = s.settings.ListByCategory(ctx, category)
	} else {
		out, err = s.settings.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	for i := range out {
		if !out[i].IsEncrypted {
			continue
		}
		plain, derr := s.cipher.Decrypt(out[i].Value)
		if derr != nil {
			s.loggerf("level=warn msg=setting decrypt failed key=%s", out[i].Key)
			out[i].Value = ""
			continue
		}
		out[i].Value = plain
	}
	return out, nil
}

// UpdateSetting writes a setting value, encrypting it first when requested.
// Plaintext of encrypted settings never reaches the log.
func (s *Service) UpdateSetting(ctx context.Context, key string, req UpdateSettingRequest, updatedBy int64) (*domain.Setting, error) {
	value := req.Value
	if req.Encrypted {
		enc, err := s.cipher.Encrypt(value)
		if err != nil {
			return nil, err
		}
		value = enc
	}

	setting, err := s.settings.Update(ctx, key, value, req.Encrypted, updatedBy)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, err
	}

	s.loggerf("level=info msg=setting updated key=%s encrypted=%v updated_by=%d", key, req.Encrypted, updatedBy)
	if setting.IsEncrypted {
		setting.Value = req.Value
	}
	return setting, nil
}

func (s *Service) CreateSupply(ctx context.Context, req CreateSupplyRequest) (*domain.Supply, error) {
	sup := &domain.Supply{
		PropertyID:   req.PropertyID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		UnitCost:     req.UnitCost,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		PurchaseDate: req.PurchaseDate,
		IsRecurring:  req.IsRecurring,
		Frequency:    req.Frequency,
	}
	if err := s.supplies.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *Service) ListSupplies(ctx context.Context) ([]repository.SupplyWithProperty, error) {
	return s.supplies.ListWithProperty(ctx)
}

func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	properties, err := s.props.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bookings.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		ActiveProperties: properties,
		TotalBookings:    bookings,
		TotalRevenue:     revenue,
	}, nil
}
