package service

import (
	"errors"
	"fmt"

	"github.com/cydxin/moments-sdk/models"
	"github.com/cydxin/moments-sdk/repository"
	"gorm.io/gorm"
)

// FriendService 好友关系的最小能力：建边、查好友 ID 集合。
// 申请/同意等完整流程归外部关系系统；可见性解析只消费这里的 ID 集合。
type FriendService struct {
	*Service

	friends *repository.FriendDAO
	users   *models.UserDAO
}

func NewFriendService(s *Service) *FriendService {
	return &FriendService{
		Service: s,
		friends: repository.NewFriendDAO(s.DB),
		users:   models.NewUserDAO(s.DB),
	}
}

// AddFriend 建立好友关系（幂等）
func (s *FriendService) AddFriend(userID, friendID uint64) error {
	if friendID == 0 || friendID == userID {
		return fmt.Errorf("%w: 非法的好友 ID", ErrValidation)
	}
	if _, err := s.users.FindByID(friendID); errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: 用户 %d", ErrNotFound, friendID)
	} else if err != nil {
		return err
	}
	return s.friends.Add(userID, friendID)
}

// ListFriendIDs 查好友 ID 集合（双向去重）
func (s *FriendService) ListFriendIDs(userID uint64) ([]uint64, error) {
	return s.friends.ListFriendIDs(userID)
}
