package model

import "time"

type Role string

const (
	RoleClient       Role = "CLIENT"
	RoleSalesManager Role = "SALES_MANAGER"
	RoleAdmin        Role = "ADMIN"
)

// 管理系の操作（全注文一覧・キャンセル代行など）を許可するロールか
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleSalesManager
}

type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	//Google連携ユーザーはパスワードを持たない
	PasswordHash *string `gorm:"column:password_hash" json:"-"`

	//Google連携時の外部ID
	GoogleID *string `gorm:"column:google_id;uniqueIndex" json:"-"`

	Role      Role      `gorm:"type:varchar(20);not null;default:'CLIENT'" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
