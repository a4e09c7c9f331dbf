package models

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"gorm.io/gorm"
)

// User is the login identity the admin surface resolves before calling into
// this package. AuthenticateUser checks credentials and ActorContext turns
// the resolved user into the context the models expect.
type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Username   string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Name       string    `gorm:"size:100" json:"name"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	IsAdmin    *bool     `gorm:"not null;default:false" json:"is_admin"`
	EmployeeId *string   `gorm:"size:10;index" json:"employee_id,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username   string  `json:"username" validate:"required"`
	Name       string  `json:"name"`
	Password   string  `json:"password" validate:"required,min=8"`
	IsAdmin    *bool   `json:"is_admin"`
	EmployeeId *string `json:"employee_id"`
}

func (input *NewUser) validate(ctx context.Context, id int) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, id); err != nil {
		return err
	}
	if input.EmployeeId != nil {
		if err := utils.ValidateResourceId[Employee](ctx, *input.EmployeeId); err != nil {
			return errors.New("employee not found")
		}
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	isAdmin := input.IsAdmin
	if isAdmin == nil {
		isAdmin = utils.NewFalse()
	}

	user := User{
		Username:   input.Username,
		Name:       input.Name,
		Password:   string(hashed),
		IsAdmin:    isAdmin,
		EmployeeId: input.EmployeeId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	db := config.GetDB()
	var user User
	if err := db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AuthenticateUser verifies a username/password pair. The error never says
// which half was wrong.
func AuthenticateUser(ctx context.Context, username, password string) (*User, error) {
	user, err := GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return user, nil
}

// ActorContext resolves the user's identity into ctx for model operations:
// user id/name, username, admin flag and the linked staff id.
func (u *User) ActorContext(ctx context.Context) context.Context {
	ctx = utils.SetUserIdInContext(ctx, u.ID)
	ctx = utils.SetUserNameInContext(ctx, u.Name)
	ctx = utils.SetUsernameInContext(ctx, u.Username)
	ctx = utils.SetIsAdminInContext(ctx, u.IsAdmin != nil && *u.IsAdmin)
	if u.EmployeeId != nil {
		ctx = utils.SetStaffIdInContext(ctx, *u.EmployeeId)
	}
	return ctx
}

// UpsertAdminUser creates or refreshes a console administrator. Used by seeding.
func UpsertAdminUser(ctx context.Context, username, name, password string) (*User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var user User
	err = db.WithContext(ctx).First(&user, "username = ?", username).Error
	if err != nil {
		user = User{
			Username: username,
			Name:     name,
			Password: string(hashed),
			IsAdmin:  utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	user.Name = name
	user.Password = string(hashed)
	user.IsAdmin = utils.NewTrue()
	if err := db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
