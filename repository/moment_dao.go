package repository

import (
	"time"

	"github.com/cydxin/moments-sdk/models"
	"gorm.io/gorm"
)

// MomentDAO 封装 Moment 相关的数据库操作
//
// 约定：
// - 只做“数据访问”（CRUD/查询封装），不做业务编排（权限、级联、通知等）。
// - 事务边界由 service 控制；如需在事务中执行，请使用 WithDB(tx)。
type MomentDAO struct {
	db *gorm.DB
}

func NewMomentDAO(db *gorm.DB) *MomentDAO {
	return &MomentDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *MomentDAO) WithDB(db *gorm.DB) *MomentDAO {
	if db == nil {
		return dao
	}
	return &MomentDAO{db: db}
}

// Create 落库一条瞬间
func (dao *MomentDAO) Create(m *models.Moment) error {
	return dao.db.Create(m).Error
}

// FindByID 按 ID 查瞬间
func (dao *MomentDAO) FindByID(id uint64) (*models.Moment, error) {
	var m models.Moment
	if err := dao.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListUnexpiredByOwners 查指定发布者集合下所有未到期的瞬间，按发布时间倒序。
// 命中 idx_owner_expire 复合索引。
func (dao *MomentDAO) ListUnexpiredByOwners(ownerIDs []uint64, now time.Time) ([]models.Moment, error) {
	if len(ownerIDs) == 0 {
		return []models.Moment{}, nil
	}
	var moments []models.Moment
	err := dao.db.Where("owner_id IN ? AND expires_at > ?", ownerIDs, now).
		Order("created_at DESC").
		Find(&moments).Error
	return moments, err
}

// ExpiredIDs 查已到期瞬间的 ID，供 reaper 清扫。命中 idx_expires_at。
func (dao *MomentDAO) ExpiredIDs(now time.Time, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = 500
	}
	var ids []uint64
	err := dao.db.Model(&models.Moment{}).
		Where("expires_at <= ?", now).
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteByIDs 物理删除指定瞬间（级联部分由 service 在同一事务内处理）
func (dao *MomentDAO) DeleteByIDs(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return dao.db.Where("id IN ?", ids).Delete(&models.Moment{}).Error
}
