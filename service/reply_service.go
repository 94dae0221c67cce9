package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cydxin/moments-sdk/models"
	"github.com/cydxin/moments-sdk/repository"
	"gorm.io/gorm"
)

// ReplyService 瞬间下的轻量回复（文本或表情）。
// 回复只随父瞬间级联删除，不支持单独删除。
type ReplyService struct {
	*Service

	replies *repository.MomentReplyDAO
	moments *repository.MomentDAO
	users   *models.UserDAO
}

func NewReplyService(s *Service) *ReplyService {
	return &ReplyService{
		Service: s,
		replies: repository.NewMomentReplyDAO(s.DB),
		moments: repository.NewMomentDAO(s.DB),
		users:   models.NewUserDAO(s.DB),
	}
}

// SenderDTO 回复者摘要
type SenderDTO struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ReplyDTO 回复对外结构
type ReplyDTO struct {
	ID        uint64    `json:"id"`
	MomentID  uint64    `json:"momentId"`
	Text      string    `json:"text"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
	Sender    SenderDTO `json:"sender"`
}

func toReplyDTO(r models.MomentReply, sender models.User) ReplyDTO {
	name := sender.Nickname
	if name == "" {
		name = sender.Username
	}
	return ReplyDTO{
		ID:        r.ID,
		MomentID:  r.MomentID,
		Text:      r.Text,
		Emoji:     r.Emoji,
		CreatedAt: r.CreatedAt,
		Sender:    SenderDTO{ID: r.SenderID, Name: name, Avatar: sender.Avatar},
	}
}

// AddReply 回复瞬间。text 与 emoji 至少一个非空；
// 目标瞬间必须存在且未到期，否则按不存在处理。
func (s *ReplyService) AddReply(momentID, senderID uint64, text, emoji string) (ReplyDTO, error) {
	text = strings.TrimSpace(text)
	emoji = strings.TrimSpace(emoji)
	if text == "" && emoji == "" {
		return ReplyDTO{}, fmt.Errorf("%w: text 与 emoji 至少填一个", ErrValidation)
	}

	m, err := s.moments.FindByID(momentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ReplyDTO{}, fmt.Errorf("%w: 瞬间 %d", ErrNotFound, momentID)
	}
	if err != nil {
		return ReplyDTO{}, err
	}
	if !m.ExpiresAt.After(s.now()) {
		// 已到期等同不存在，不接受新回复
		return ReplyDTO{}, fmt.Errorf("%w: 瞬间 %d 已过期", ErrNotFound, momentID)
	}

	now := s.now()
	r := models.MomentReply{
		MomentID:  momentID,
		SenderID:  senderID,
		Text:      text,
		Emoji:     emoji,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.replies.Create(&r); err != nil {
		return ReplyDTO{}, err
	}

	sender := models.User{ID: senderID}
	if u, uerr := s.users.FindByID(senderID); uerr == nil {
		sender = *u
	}
	dto := toReplyDTO(r, sender)

	// 通知发布者（自己回自己不推）
	if m.OwnerID != senderID {
		s.pushEvent([]uint64{m.OwnerID}, EventMomentReply, dto)
	}
	return dto, nil
}

// ListRecentReplies 查某条瞬间最近的回复（时间倒序，默认窗口 50 条）
func (s *ReplyService) ListRecentReplies(momentID uint64, limit int) ([]ReplyDTO, error) {
	replies, err := s.replies.ListRecent(momentID, limit)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return []ReplyDTO{}, nil
	}

	senderSet := make(map[uint64]struct{}, len(replies))
	senderIDs := make([]uint64, 0, len(replies))
	for _, r := range replies {
		if _, ok := senderSet[r.SenderID]; !ok {
			senderSet[r.SenderID] = struct{}{}
			senderIDs = append(senderIDs, r.SenderID)
		}
	}
	senders, err := s.users.FindByIDs(senderIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]ReplyDTO, len(replies))
	for i, r := range replies {
		dtos[i] = toReplyDTO(r, senders[r.SenderID])
	}
	return dtos, nil
}
