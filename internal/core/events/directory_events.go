package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated     = "directory.user.created"
	EventTypeUserDeleted     = "directory.user.deleted"
	EventTypePasswordChanged = "directory.user.password_changed"
	EventTypeGrantCreated    = "access.grant.created"
	EventTypeGrantRevoked    = "access.grant.revoked"
)

type UserCreatedEvent struct {
	BaseEvent
	UserCode string `json:"user_code"`
	UserName string `json:"user_name"`
}

func NewUserCreatedEvent(userCode, userName string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_code": userCode,
				"user_name": userName,
			},
		},
		UserCode: userCode,
		UserName: userName,
	}
}

type UserDeletedEvent struct {
	BaseEvent
	UserCode string `json:"user_code"`
}

func NewUserDeletedEvent(userCode string) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_code": userCode,
			},
		},
		UserCode: userCode,
	}
}

// PasswordChangedEvent records that the credential changed, never the value.
type PasswordChangedEvent struct {
	BaseEvent
	UserCode string `json:"user_code"`
}

func NewPasswordChangedEvent(userCode string) *PasswordChangedEvent {
	return &PasswordChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePasswordChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_code": userCode,
			},
		},
		UserCode: userCode,
	}
}

type GrantCreatedEvent struct {
	BaseEvent
	GrantID     int64   `json:"grant_id"`
	UserCode    string  `json:"user_code"`
	GroupCode   *string `json:"group_code,omitempty"`
	SectionCode *string `json:"section_code,omitempty"`
	PageRef     string  `json:"page_ref"`
}

func NewGrantCreatedEvent(grantID int64, userCode string, groupCode, sectionCode *string, pageRef string) *GrantCreatedEvent {
	data := map[string]interface{}{
		"grant_id":  grantID,
		"user_code": userCode,
		"page_ref":  pageRef,
	}
	if groupCode != nil {
		data["group_code"] = *groupCode
	}
	if sectionCode != nil {
		data["section_code"] = *sectionCode
	}
	return &GrantCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrantCreated,
			Timestamp: time.Now(),
			Data:      data,
		},
		GrantID:     grantID,
		UserCode:    userCode,
		GroupCode:   groupCode,
		SectionCode: sectionCode,
		PageRef:     pageRef,
	}
}

type GrantRevokedEvent struct {
	BaseEvent
	GrantID  int64  `json:"grant_id"`
	UserCode string `json:"user_code"`
	PageRef  string `json:"page_ref"`
}

func NewGrantRevokedEvent(grantID int64, userCode, pageRef string) *GrantRevokedEvent {
	return &GrantRevokedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeGrantRevoked,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"grant_id":  grantID,
				"user_code": userCode,
				"page_ref":  pageRef,
			},
		},
		GrantID:  grantID,
		UserCode: userCode,
		PageRef:  pageRef,
	}
}
