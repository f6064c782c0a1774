package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的用戶
type User struct {
	gorm.Model           // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Username    string   `gorm:"uniqueIndex;not null" json:"username"` // 用戶名，必須唯一
	Password    string   `gorm:"not null" json:"-"`                    // 密碼，json 序列化時會被忽略
	DisplayName string   `json:"display_name"`                         // 顯示名稱，用於排行榜與廣播
	Role        UserRole `gorm:"type:varchar(20);not null" json:"role"`
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RolePlayer UserRole = "player" // 一般玩家
	RoleAdmin  UserRole = "admin"  // 管理員
)
