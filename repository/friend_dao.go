package repository

import (
	"github.com/cydxin/moments-sdk/models"
	"gorm.io/gorm"
)

// FriendDAO 封装好友关系的数据库操作。
// 可见性解析只消费这里产出的好友 ID 集合，不感知存储细节。
type FriendDAO struct {
	db *gorm.DB
}

func NewFriendDAO(db *gorm.DB) *FriendDAO {
	return &FriendDAO{db: db}
}

// Add 建立好友关系（幂等，已存在则不重复建）
func (dao *FriendDAO) Add(userID, friendID uint64) error {
	f := &models.Friend{UserID: userID, FriendID: friendID, Status: models.FriendStatusNormal}
	return dao.db.FirstOrCreate(f, map[string]any{"user_id": userID, "friend_id": friendID}).Error
}

// ListFriendIDs 查用户的好友 ID 集合（双向容错，去重）
func (dao *FriendDAO) ListFriendIDs(userID uint64) ([]uint64, error) {
	var a, b []uint64
	if err := dao.db.Model(&models.Friend{}).
		Where("user_id = ? AND status = ?", userID, models.FriendStatusNormal).
		Pluck("friend_id", &a).Error; err != nil {
		return nil, err
	}
	if err := dao.db.Model(&models.Friend{}).
		Where("friend_id = ? AND status = ?", userID, models.FriendStatusNormal).
		Pluck("user_id", &b).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(a)+len(b))
	ids := make([]uint64, 0, len(a)+len(b))
	for _, id := range append(a, b...) {
		if id == 0 || id == userID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
