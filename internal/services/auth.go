package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"college/internal/config"
	"college/internal/database"
	"college/internal/models"
)

// Authentication errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrSelfDelete         = errors.New("cannot delete the account you are signed in with")
	ErrInvalidPassword    = errors.New("password does not meet requirements")
	ErrInvalidRole        = errors.New("role must be admin or teacher")
	ErrSetupComplete      = errors.New("an administrator account already exists")
)

// dummyHash is compared against when the username is unknown so both paths cost one bcrypt check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("college-dummy-password"), bcrypt.MinCost)

// AuthService handles admin authentication and account management.
type AuthService struct {
	db         *database.DB
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(db *database.DB, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		db:         db,
		logger:     logger,
		bcryptCost: cfg.Security.BcryptCost,
	}
}

// Authenticate verifies credentials and returns the matching account.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)

	admin, err := s.db.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authentication error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return admin, nil
}

// CreateAdmin creates an account. An empty role defaults to teacher.
func (s *AuthService) CreateAdmin(ctx context.Context, input models.AdminCreate) (*models.Admin, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	if input.Role == "" {
		input.Role = models.RoleTeacher
	}
	if !input.Role.IsValid() {
		return nil, fmt.Errorf("%w: %w", ErrValidation, ErrInvalidRole)
	}

	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.db.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		Role:         input.Role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.db.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("admin account created",
		zap.String("username", admin.Username),
		zap.String("role", string(admin.Role)))

	return admin, nil
}

// CreateInitialAdmin creates the first account during setup. It always has the admin role.
func (s *AuthService) CreateInitialAdmin(ctx context.Context, input models.AdminCreate) (*models.Admin, error) {
	hasAdmins, err := s.HasAnyAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if hasAdmins {
		return nil, ErrSetupComplete
	}

	input.Role = models.RoleAdmin
	return s.CreateAdmin(ctx, input)
}

// DeleteAdmin removes the account targetID on behalf of actorID.
// Deleting one's own account is rejected before storage is touched.
func (s *AuthService) DeleteAdmin(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	if err := s.db.DeleteAdmin(ctx, targetID); err != nil {
		return err
	}

	s.logger.Info("admin account deleted", zap.Int64("id", targetID), zap.Int64("by", actorID))
	return nil
}

// ValidatePassword checks if a password meets security requirements.
func (s *AuthService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidPassword)
	}

	if len(password) > 72 {
		// bcrypt has a maximum length of 72 bytes
		return fmt.Errorf("%w: password must be at most 72 characters", ErrInvalidPassword)
	}

	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain letters and digits", ErrInvalidPassword)
	}

	weakPasswords := []string{"password", "12345678", "qwerty", "letmein", "admin123", "teacher123"}
	lowerPassword := strings.ToLower(password)
	for _, weak := range weakPasswords {
		if strings.Contains(lowerPassword, weak) {
			return fmt.Errorf("%w: password is too common", ErrInvalidPassword)
		}
	}

	return nil
}

// GetAdminByID retrieves an account by ID.
func (s *AuthService) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	return s.db.GetAdminByID(ctx, id)
}

// ListAdmins returns all accounts.
func (s *AuthService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	return s.db.ListAdmins(ctx)
}

// HasAnyAdmins reports whether at least one account exists.
func (s *AuthService) HasAnyAdmins(ctx context.Context) (bool, error) {
	count, err := s.db.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
