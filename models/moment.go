package models

import (
	"time"

	"gorm.io/datatypes"
)

// 瞬间（Moment）相关模型
//
// 这些表不做软删除：动态到期即物理清除，不保留历史。

// 媒体类型
const (
	MediaKindImage uint8 = 1
	MediaKindVideo uint8 = 2
)

// ParseMediaKind 解析对外的媒体类型字符串（image/video）
func ParseMediaKind(s string) (uint8, bool) {
	switch s {
	case "image":
		return MediaKindImage, true
	case "video":
		return MediaKindVideo, true
	}
	return 0, false
}

// MediaKindName 媒体类型对外名称
func MediaKindName(k uint8) string {
	if k == MediaKindVideo {
		return "video"
	}
	return "image"
}

// Moment 瞬间主表
// 24 小时后到期，到期记录由 reaper 清除；读取路径同时按 expires_at 过滤
type Moment struct {
	ID         uint64         `gorm:"primarykey"`
	OwnerID    uint64         `gorm:"index:idx_owner_expire;not null"`       // 发布者
	MediaRef   string         `gorm:"size:1000;not null"`                    // 媒体地址（不透明引用）
	MediaKind  uint8          `gorm:"type:tinyint;not null;default:1"`       // 1-图片 2-视频
	DurationMs int64          `gorm:"not null;default:5000"`                 // 播放时长（毫秒，已做钳制）
	Extra      datatypes.JSON `gorm:"type:json"`                             // 客户端附加元数据（宽高/缩略图等，原样透传）
	CreatedAt  time.Time      `gorm:"index"`
	UpdatedAt  time.Time
	ExpiresAt  time.Time `gorm:"index:idx_owner_expire;index:idx_expires_at;not null"` // created_at + 24h

	// 关联关系
	Owner   User           `gorm:"foreignKey:OwnerID"`
	Viewers []MomentViewer `gorm:"foreignKey:MomentID"`
	Replies []MomentReply  `gorm:"foreignKey:MomentID"`
}

func (Moment) TableName() string { return prefix + "moment" }

// MomentViewer 查看记录表
// (moment_id, viewer_id) 唯一索引保证同一查看者只有一条记录，
// 重复上报靠 insert-ignore 吸收，天然幂等
type MomentViewer struct {
	ID        uint64 `gorm:"primarykey"`
	MomentID  uint64 `gorm:"index:idx_moment_viewer,unique;not null"`
	ViewerID  uint64 `gorm:"index:idx_moment_viewer,unique;not null"`
	CreatedAt time.Time
}

func (MomentViewer) TableName() string { return prefix + "moment_viewer" }

// MomentReply 瞬间回复表
// 文本或表情至少一个非空；随父动态级联删除，不支持单独删除
type MomentReply struct {
	ID        uint64    `gorm:"primarykey"`
	MomentID  uint64    `gorm:"index;not null"`
	SenderID  uint64    `gorm:"index;not null"`
	Text      string    `gorm:"size:500"` // 文本内容
	Emoji     string    `gorm:"size:16"`  // 表情
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// 关联关系
	Sender User   `gorm:"foreignKey:SenderID"`
	Moment Moment `gorm:"foreignKey:MomentID"`
}

func (MomentReply) TableName() string { return prefix + "moment_reply" }
