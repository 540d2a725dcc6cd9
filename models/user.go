package models

import (
	"time"
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	IsSuperAdmin bool       `gorm:"column:is_super_admin" json:"is_super_admin"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	CompanyRoles []CompanyRole `gorm:"many2many:user_company_roles;foreignKey:UserID;joinForeignKey:UserID;References:CompanyRoleID;joinReferences:CompanyRoleID" json:"company_roles,omitempty"`
}

// CompanyRole is a free-form organizational role ("Lead Artist", "Producer", ...).
// Evaluator roles are derived from these names via the configured role table.
type CompanyRole struct {
	CompanyRoleID int        `gorm:"primaryKey;column:company_role_id" json:"company_role_id"`
	RoleName      string     `gorm:"column:role_name;unique" json:"role_name"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// CompanyRoleNames returns the user's role names in stored order.
func (u *User) CompanyRoleNames() []string {
	names := make([]string, 0, len(u.CompanyRoles))
	for _, role := range u.CompanyRoles {
		names = append(names, role.RoleName)
	}
	return names
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (CompanyRole) TableName() string {
	return "company_roles"
}
