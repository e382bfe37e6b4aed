package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 旅行パッケージ商品
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`

	//行き先（Bariloche / Mendoza など）
	Destination string `gorm:"type:varchar(255)" json:"destination"`

	//一覧表示用の画像パス
	Image string `gorm:"type:varchar(500)" json:"image"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
