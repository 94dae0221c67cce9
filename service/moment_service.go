package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/moments-sdk/models"
	"github.com/cydxin/moments-sdk/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MomentService 瞬间的创建、可见列表、查看记录与删除（含级联）
type MomentService struct {
	*Service

	moments *repository.MomentDAO
	viewers *repository.MomentViewerDAO
	replies *repository.MomentReplyDAO
	friends *repository.FriendDAO
	users   *models.UserDAO
}

func NewMomentService(s *Service) *MomentService {
	return &MomentService{
		Service: s,
		moments: repository.NewMomentDAO(s.DB),
		viewers: repository.NewMomentViewerDAO(s.DB),
		replies: repository.NewMomentReplyDAO(s.DB),
		friends: repository.NewFriendDAO(s.DB),
		users:   models.NewUserDAO(s.DB),
	}
}

// CreateMomentReq 发布瞬间请求
type CreateMomentReq struct {
	MediaRef  string `json:"mediaRef"`  // 媒体引用，必填
	MediaKind string `json:"mediaKind"` // image / video
	// DurationMs 播放时长（毫秒）。缺失/非数字按缺省 5000 处理，超限截断
	DurationMs any            `json:"durationMs"`
	Extra      datatypes.JSON `json:"extra"` // 可选客户端元数据，原样存取
}

// MomentDTO 瞬间对外结构
type MomentDTO struct {
	ID         uint64         `json:"id"`
	OwnerID    uint64         `json:"ownerId"`
	Username   string         `json:"username"`
	Avatar     string         `json:"avatar"`
	MediaRef   string         `json:"mediaRef"`
	MediaKind  string         `json:"mediaKind"`
	DurationMs int64          `json:"durationMs"`
	CreatedAt  time.Time      `json:"createdAt"`
	ExpiresAt  time.Time      `json:"expiresAt"`
	Viewers    []uint64       `json:"viewers"`
	Extra      datatypes.JSON `json:"extra,omitempty"`
}

func toMomentDTO(m models.Moment, owner models.User, viewerIDs []uint64) MomentDTO {
	if viewerIDs == nil {
		viewerIDs = []uint64{}
	}
	username := owner.Nickname
	if username == "" {
		username = owner.Username
	}
	return MomentDTO{
		ID:         m.ID,
		OwnerID:    m.OwnerID,
		Username:   username,
		Avatar:     owner.Avatar,
		MediaRef:   m.MediaRef,
		MediaKind:  models.MediaKindName(m.MediaKind),
		DurationMs: m.DurationMs,
		CreatedAt:  m.CreatedAt,
		ExpiresAt:  m.ExpiresAt,
		Viewers:    viewerIDs,
		Extra:      m.Extra,
	}
}

// CreateMoment 发布瞬间。
// 时长走钳制策略，到期时间固定 created_at + 24h，查看者集合初始为空。
func (s *MomentService) CreateMoment(ownerID uint64, req CreateMomentReq) (MomentDTO, error) {
	mediaRef := strings.TrimSpace(req.MediaRef)
	if mediaRef == "" {
		return MomentDTO{}, fmt.Errorf("%w: mediaRef 不能为空", ErrValidation)
	}
	kind, ok := models.ParseMediaKind(req.MediaKind)
	if !ok {
		return MomentDTO{}, fmt.Errorf("%w: 不支持的 mediaKind %q", ErrValidation, req.MediaKind)
	}

	now := s.now()
	m := models.Moment{
		OwnerID:    ownerID,
		MediaRef:   mediaRef,
		MediaKind:  kind,
		DurationMs: ClampDurationValue(req.DurationMs),
		Extra:      req.Extra,
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  ComputeExpiry(now),
	}
	if err := s.moments.Create(&m); err != nil {
		return MomentDTO{}, err
	}

	owner := models.User{ID: ownerID}
	if u, err := s.users.FindByID(ownerID); err == nil {
		owner = *u
	}
	dto := toMomentDTO(m, owner, nil)

	// 新瞬间推给好友，失败不影响创建结果
	if ids, err := s.friends.ListFriendIDs(ownerID); err == nil {
		s.pushEvent(ids, EventMomentCreated, dto)
	}
	return dto, nil
}

// ListVisibleMoments 查看者可见的全部未到期瞬间（自己 + 好友，发布时间倒序）。
// 顺序是播放器的输入：它按这个序列播放并在边界处环绕。
func (s *MomentService) ListVisibleMoments(viewerID uint64) ([]MomentDTO, error) {
	friendIDs, err := s.friends.ListFriendIDs(viewerID)
	if err != nil {
		return nil, err
	}

	moments, err := s.moments.ListUnexpiredByOwners(VisibleOwners(viewerID, friendIDs), s.now())
	if err != nil {
		return nil, err
	}
	if len(moments) == 0 {
		return []MomentDTO{}, nil
	}

	momentIDs := make([]uint64, len(moments))
	ownerSet := make(map[uint64]struct{}, len(moments))
	ownerIDs := make([]uint64, 0, len(moments))
	for i, m := range moments {
		momentIDs[i] = m.ID
		if _, ok := ownerSet[m.OwnerID]; !ok {
			ownerSet[m.OwnerID] = struct{}{}
			ownerIDs = append(ownerIDs, m.OwnerID)
		}
	}

	owners, err := s.users.FindByIDs(ownerIDs)
	if err != nil {
		return nil, err
	}
	viewerMap, err := s.viewers.MapViewerIDs(momentIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]MomentDTO, len(moments))
	for i, m := range moments {
		dtos[i] = toMomentDTO(m, owners[m.OwnerID], viewerMap[m.ID])
	}
	return dtos, nil
}

// MarkViewed 记录查看者看过某条瞬间。
// 尽力而为的埋点：瞬间不存在或已到期（还没被清扫）都按无事发生处理，
// 重复上报由唯一索引吸收，绝不因此阻塞播放。
func (s *MomentService) MarkViewed(momentID, viewerID uint64) error {
	m, err := s.moments.FindByID(momentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !m.ExpiresAt.After(s.now()) {
		return nil
	}
	return s.viewers.MarkViewed(momentID, viewerID)
}

// ListViewerIDs 查某条瞬间的查看者集合（无序）
func (s *MomentService) ListViewerIDs(momentID uint64) ([]uint64, error) {
	return s.viewers.ListViewerIDs(momentID)
}

// DeleteMoment 删除瞬间，发布者本人或特权角色可操作。
// 回复、查看记录与主记录在同一事务内删除：
// 读者永远不会看到“瞬间没了、回复还在”的中间态。
func (s *MomentService) DeleteMoment(momentID, requesterID uint64, requesterIsPrivileged bool) error {
	m, err := s.moments.FindByID(momentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: 瞬间 %d", ErrNotFound, momentID)
	}
	if err != nil {
		return err
	}
	if m.OwnerID != requesterID && !requesterIsPrivileged {
		return fmt.Errorf("%w: 仅发布者或管理员可删除", ErrForbidden)
	}

	if err := s.deleteCascade([]uint64{momentID}); err != nil {
		return err
	}

	if ids, ferr := s.friends.ListFriendIDs(m.OwnerID); ferr == nil {
		s.pushEvent(ids, EventMomentDeleted, map[string]uint64{"id": momentID})
	}
	return nil
}

// deleteCascade 单事务级联删除：回复 -> 查看记录 -> 瞬间。
// 显式删除与 reaper 清扫共用这一条路径。
func (s *MomentService) deleteCascade(momentIDs []uint64) error {
	if len(momentIDs) == 0 {
		return nil
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.replies.WithDB(tx).DeleteByMomentIDs(momentIDs); err != nil {
			return err
		}
		if err := s.viewers.WithDB(tx).DeleteByMomentIDs(momentIDs); err != nil {
			return err
		}
		return s.moments.WithDB(tx).DeleteByIDs(momentIDs)
	})
}
