package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/retail_backend/config"
	"bitbucket.org/mmdatafocus/retail_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User is the employee directory entry. Commission fields form the commission
// rule the profit calculator resolves per creating employee.
type User struct {
	ID              int             `gorm:"primary_key" json:"id"`
	Username        string          `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name            string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Email           *string         `gorm:"size:100;unique" json:"email"`
	Mobile          string          `gorm:"size:20" json:"mobile"`
	EmployeeCode    string          `gorm:"size:20;unique" json:"employee_code"`
	Password        string          `gorm:"size:255;not null" json:"-"`
	IsActive        *bool           `gorm:"not null;default:true" json:"is_active"`
	Role            UserRole        `gorm:"type:enum('admin','owner','employee');default:employee" json:"role"`
	CommissionType  CommissionType  `gorm:"type:enum('percentage','fixed');default:percentage" json:"commission_type"`
	CommissionValue decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"commission_value"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username        string          `json:"username" binding:"required"`
	Name            string          `json:"name" binding:"required"`
	Email           string          `json:"email"`
	Mobile          string          `json:"mobile"`
	EmployeeCode    string          `json:"employee_code"`
	Password        string          `json:"password" binding:"required"`
	IsActive        *bool           `json:"is_active"`
	Role            UserRole        `json:"role" binding:"required"`
	CommissionType  CommissionType  `json:"commission_type"`
	CommissionValue decimal.Decimal `json:"commission_value"`
}

// CommissionRule resolves this employee's commission rule for the calculator.
func (u *User) CommissionRule() CommissionRule {
	return CommissionRule{
		Type:  u.CommissionType,
		Value: u.CommissionValue,
	}
}

// validate input for both create & update. (id = 0 for create)
func (input *NewUser) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, id); err != nil {
		return err
	}
	if len(input.Email) > 0 {
		if !utils.IsValidEmail(input.Email) {
			return utils.NewValidationError("invalid email")
		}
		if err := utils.ValidateUnique[User](ctx, "email", input.Email, id); err != nil {
			return err
		}
	}
	if len(input.Mobile) > 0 {
		if err := utils.ValidatePhoneNumber(input.Mobile, countryCodeFromEnv()); err != nil {
			return utils.NewValidationError("invalid mobile number: %v", err)
		}
	}
	if !input.Role.IsValid() {
		return utils.NewValidationError("invalid role %q", input.Role)
	}
	if input.CommissionType != "" && !input.CommissionType.IsValid() {
		return utils.NewValidationError("invalid commission type %q", input.CommissionType)
	}
	if input.CommissionValue.IsNegative() {
		return utils.NewValidationError("commission value must not be negative")
	}
	return nil
}

func countryCodeFromEnv() string {
	// Default region for mobile validation; the console is deployed per-shop.
	return "MM"
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	commissionType := input.CommissionType
	if commissionType == "" {
		commissionType = CommissionTypePercentage
	}
	isActive := input.IsActive
	if isActive == nil {
		isActive = utils.NewTrue()
	}

	user := User{
		Username:        strings.ToLower(strings.TrimSpace(input.Username)),
		Name:            input.Name,
		Mobile:          input.Mobile,
		EmployeeCode:    input.EmployeeCode,
		Password:        string(hashed),
		IsActive:        isActive,
		Role:            input.Role,
		CommissionType:  commissionType,
		CommissionValue: input.CommissionValue,
	}
	if input.Email != "" {
		user.Email = &input.Email
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserById(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &utils.NotFoundError{Resource: "user", Id: id}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func ListActiveUsers(ctx context.Context) ([]User, error) {
	db := config.GetDB()
	var users []User
	err := db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Login verifies credentials and returns a signed JWT.
func Login(ctx context.Context, username string, password string) (string, *User, error) {
	user, err := GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, utils.NewValidationError("invalid username or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return "", nil, utils.NewValidationError("account is disabled")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return "", nil, utils.NewValidationError("invalid username or password")
	}
	token, err := utils.JwtGenerate(user.ID, user.Username, string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
