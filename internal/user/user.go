package user

import (
	"time"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

// User is the domain view of a directory user. The credential digest stays
// in the datamodel and is never exposed here.
type User struct {
	UserCode  string    `json:"user_code"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		UserCode: u.UserCode,
		UserName: u.UserName,
	}
}

func FromDataModel(m *directoryDatamodel.User) *User {
	return &User{
		UserCode:  m.UserCode,
		UserName:  m.UserName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToDataModel(u *User, passwordDigest string) *directoryDatamodel.User {
	return &directoryDatamodel.User{
		UserCode: u.UserCode,
		UserName: u.UserName,
		Password: passwordDigest,
	}
}
