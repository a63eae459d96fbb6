package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-billing/models"
)

type StaffService struct {
	DB *gorm.DB
}

func NewStaffService(db *gorm.DB) *StaffService {
	return &StaffService{DB: db}
}

type CreateStaffRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

func (s *StaffService) Create(ctx context.Context, id Identity, req CreateStaffRequest) (*models.Staff, error) {
	if err := id.Require(models.PermStaffCreate); err != nil {
		return nil, err
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || strings.TrimSpace(req.FullName) == "" {
		return nil, Validation("staff.invalid", "full name and username are required")
	}
	if len(req.Password) < 8 {
		return nil, Validation("staff.weakPassword", "password must be at least 8 characters")
	}

	db := s.DB.WithContext(ctx)
	role, err := findRole(db, req.Role)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := models.Staff{
		FullName: strings.TrimSpace(req.FullName),
		Username: username,
		Password: string(hash),
		Phone:    strings.TrimSpace(req.Phone),
		RoleID:   &role.ID,
	}
	if err := db.Omit("Role").Create(&staff).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	staff.Role = role
	return &staff, nil
}

func (s *StaffService) List(ctx context.Context, id Identity) ([]models.Staff, error) {
	if err := id.Require(models.PermStaffView); err != nil {
		return nil, err
	}
	var staff []models.Staff
	err := s.DB.WithContext(ctx).Preload("Role").Order("full_name").Find(&staff).Error
	return staff, err
}

// Delete soft-deletes an account. Callers cannot delete themselves.
func (s *StaffService) Delete(ctx context.Context, id Identity, staffID uint) error {
	if err := id.Require(models.PermStaffDelete); err != nil {
		return err
	}
	if staffID == id.UserID {
		return Validation("staff.deleteSelf", "you cannot delete your own account")
	}
	res := s.DB.WithContext(ctx).Delete(&models.Staff{}, staffID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// Authenticate checks a username and password and returns the account with
// its role loaded.
func (s *StaffService) Authenticate(ctx context.Context, username, password string) (*models.Staff, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, Validation("auth.credentialsRequired", "username and password required")
	}
	var staff models.Staff
	if err := s.DB.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &staff, nil
}

// ResolveIdentity loads a staff account's current role and permissions. A
// deleted account resolves to ErrUnauthenticated.
func (s *StaffService) ResolveIdentity(ctx context.Context, staffID uint) (Identity, error) {
	var staff models.Staff
	err := s.DB.WithContext(ctx).Preload("Role.Permissions").First(&staff, staffID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}
	if staff.Role == nil {
		return NewIdentity(staff.ID, "", nil), nil
	}
	perms := make([]string, 0, len(staff.Role.Permissions))
	for _, p := range staff.Role.Permissions {
		perms = append(perms, p.Permission)
	}
	return NewIdentity(staff.ID, staff.Role.Name, perms), nil
}
