package user

import (
	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/core/common/validation"
)

type CreateUserDTO struct {
	UserCode string `json:"user_code"`
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

func (d CreateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_code", d.UserCode).Required().MaxLength(64)
	v.Field("user_name", d.UserName).Required().MaxLength(255)
	v.Field("password", d.Password).Required()
	return v.Validate()
}

// UpdateUserDTO renames a user; the primary key may change and the rename
// cascades to access grants.
type UpdateUserDTO struct {
	UserCode string `json:"user_code"`
	UserName string `json:"user_name"`
}

func (d UpdateUserDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_code", d.UserCode).Required().MaxLength(64)
	v.Field("user_name", d.UserName).Required().MaxLength(255)
	return v.Validate()
}

type ChangePasswordDTO struct {
	NewPassword string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("new_password", d.NewPassword).Required()
	return v.Validate()
}

type UserResponse struct {
	UserCode string `json:"user_code"`
	UserName string `json:"user_name"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}
