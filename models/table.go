package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	prefix = "mo_"
)

// 用户角色
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
)

// User 用户表
// 账号体系由外部系统负责，这里只保留动态展示与鉴权所需的最小字段
type User struct {
	ID        uint64 `gorm:"primarykey"`
	UID       string `gorm:"size:36;uniqueIndex;not null"` // 对外用户 ID
	Username  string `gorm:"size:50;uniqueIndex;not null"` // 用户名
	Nickname  string `gorm:"size:100"`                     // 昵称
	Password  string `gorm:"size:255;not null"`            // 密码
	Avatar    string `gorm:"size:500"`                     // 头像
	Role      string `gorm:"size:20;default:user"`         // 角色: user/admin/developer
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联关系
	Friends []Friend `gorm:"foreignKey:UserID"`
	Moments []Moment `gorm:"foreignKey:OwnerID"`
}

func (User) TableName() string {
	return prefix + "user"
}

// 好友状态
const (
	FriendStatusNormal  = 1
	FriendStatusBlocked = 2
)

// Friend 好友关系表
// 单向存一条即可，查询时双向容错
type Friend struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"index:idx_pair,unique;not null"` // 用户 ID
	FriendID  uint64 `gorm:"index:idx_pair,unique;not null"` // 好友 ID
	Status    uint8  `gorm:"type:tinyint;default:1"`         // 状态: 1-正常 2-拉黑
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联关系
	User   User `gorm:"foreignKey:UserID"`
	Friend User `gorm:"foreignKey:FriendID"`
}

func (f *Friend) TableName() string {
	return prefix + "friend"
}
