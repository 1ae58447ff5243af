package directory

import "time"

// User row. Password holds the one-way credential digest, never clear text.
type User struct {
	UserCode  string    `gorm:"column:user_code;primaryKey"`
	UserName  string    `gorm:"column:user_name;not null"`
	Password  string    `gorm:"column:password;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

type Group struct {
	GroupCode string    `gorm:"column:group_code;primaryKey"`
	GroupName string    `gorm:"column:group_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Group) TableName() string { return "groups" }

type Section struct {
	SectionCode string    `gorm:"column:section_code;primaryKey"`
	SectionName string    `gorm:"column:section_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Section) TableName() string { return "sections" }

type Page struct {
	PageRef   string    `gorm:"column:page_ref;primaryKey"`
	PageName  string    `gorm:"column:page_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Page) TableName() string { return "pages" }

// AccessGrant links a user, optionally acting under a group and scoped to a
// section, to a page. The surrogate ID is the deterministic ordering key for
// effective-group resolution.
type AccessGrant struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserCode    string    `gorm:"column:user_code;not null"`
	GroupCode   *string   `gorm:"column:group_code"`
	SectionCode *string   `gorm:"column:section_code"`
	PageRef     string    `gorm:"column:page_ref;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AccessGrant) TableName() string { return "access_control" }
