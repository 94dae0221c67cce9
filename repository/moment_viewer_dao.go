package repository

import (
	"github.com/cydxin/moments-sdk/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MomentViewerDAO 封装查看记录的数据库操作
type MomentViewerDAO struct {
	db *gorm.DB
}

func NewMomentViewerDAO(db *gorm.DB) *MomentViewerDAO {
	return &MomentViewerDAO{db: db}
}

// WithDB 用于在事务（tx）中复用 DAO
func (dao *MomentViewerDAO) WithDB(db *gorm.DB) *MomentViewerDAO {
	if db == nil {
		return dao
	}
	return &MomentViewerDAO{db: db}
}

// MarkViewed 记录一次查看。
// 靠 (moment_id, viewer_id) 唯一索引 + insert-ignore 实现幂等：
// 重复上报不报错、不产生第二条记录，也不需要调用方先读后写。
func (dao *MomentViewerDAO) MarkViewed(momentID, viewerID uint64) error {
	return dao.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.MomentViewer{MomentID: momentID, ViewerID: viewerID}).Error
}

// ListViewerIDs 查某条瞬间的全部查看者 ID（无序集合）
func (dao *MomentViewerDAO) ListViewerIDs(momentID uint64) ([]uint64, error) {
	var ids []uint64
	err := dao.db.Model(&models.MomentViewer{}).
		Where("moment_id = ?", momentID).
		Pluck("viewer_id", &ids).Error
	return ids, err
}

// MapViewerIDs 批量查多条瞬间的查看者，返回 moment_id -> viewer_id 列表
func (dao *MomentViewerDAO) MapViewerIDs(momentIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(momentIDs))
	if len(momentIDs) == 0 {
		return out, nil
	}
	var rows []models.MomentViewer
	if err := dao.db.Where("moment_id IN ?", momentIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.MomentID] = append(out[r.MomentID], r.ViewerID)
	}
	return out, nil
}

// DeleteByMomentIDs 删除指定瞬间的全部查看记录（级联路径专用）
func (dao *MomentViewerDAO) DeleteByMomentIDs(momentIDs []uint64) error {
	if len(momentIDs) == 0 {
		return nil
	}
	return dao.db.Where("moment_id IN ?", momentIDs).Delete(&models.MomentViewer{}).Error
}
