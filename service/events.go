package service

import (
	"encoding/json"
	"log"
)

// WS 推送事件类型
const (
	EventMomentCreated = "moment.created"
	EventMomentDeleted = "moment.deleted"
	EventMomentReply   = "moment.reply"
)

// FeedEvent 推送给客户端的动态事件
type FeedEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// pushEvent 序列化事件并逐个推送。推送失败只影响实时性，
// 不影响请求结果，所以这里不向上返回错误。
func (s *Service) pushEvent(userIDs []uint64, typ string, data any) {
	if s.WsNotifier == nil || len(userIDs) == 0 {
		return
	}
	b, err := json.Marshal(FeedEvent{Type: typ, Data: data})
	if err != nil {
		log.Printf("pushEvent marshal %s: %v", typ, err)
		return
	}
	for _, uid := range userIDs {
		if uid == 0 {
			continue
		}
		s.notify(uid, b)
	}
}
