package repository

import (
	"github.com/cydxin/moments-sdk/models"
	"gorm.io/gorm"
)

// MomentReplyDAO 封装瞬间回复的数据库操作
type MomentReplyDAO struct {
	db *gorm.DB
}

func NewMomentReplyDAO(db *gorm.DB) *MomentReplyDAO {
	return &MomentReplyDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *MomentReplyDAO) WithDB(db *gorm.DB) *MomentReplyDAO {
	if db == nil {
		return dao
	}
	return &MomentReplyDAO{db: db}
}

// Create 落库一条回复
func (dao *MomentReplyDAO) Create(r *models.MomentReply) error {
	return dao.db.Create(r).Error
}

// ListRecent 查某条瞬间最近的回复（时间倒序，默认上限 50）。
// 这是展示窗口，不保证覆盖全部历史。
func (dao *MomentReplyDAO) ListRecent(momentID uint64, limit int) ([]models.MomentReply, error) {
	if limit <= 0 {
		limit = 50
	}
	var replies []models.MomentReply
	err := dao.db.Where("moment_id = ?", momentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&replies).Error
	return replies, err
}

// DeleteByMomentIDs 删除指定瞬间的全部回复（级联路径专用，不对外暴露）
func (dao *MomentReplyDAO) DeleteByMomentIDs(momentIDs []uint64) error {
	if len(momentIDs) == 0 {
		return nil
	}
	return dao.db.Where("moment_id IN ?", momentIDs).Delete(&models.MomentReply{}).Error
}
