package service

import (
	"context"
	"time"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/model/types"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/ident"
	"tolet.dev/backend/internal/pkg/visibility"
	"tolet.dev/backend/internal/repo"
)

type Message struct {
	MessageRepo     *repo.Message
	PropertyService *Property
	Events          *Events
}

func NewMessage(messageRepo *repo.Message, propertyService *Property, events *Events) *Message {
	return &Message{
		MessageRepo:     messageRepo,
		PropertyService: propertyService,
		Events:          events,
	}
}

// Send delivers a message about a property. Without an explicit receiver
// the message goes to the property owner. Renters may only write about
// listings that are visible and available; the owner may only reply.
func (s *Message) Send(ctx context.Context, r visibility.Requester, req *types.SendMessageRequest) (*model.Message, error) {
	property, err := s.PropertyService.GetVisible(ctx, r, req.PropertyID)
	if err != nil {
		return nil, err
	}

	receiverID := req.ReceiverID
	if receiverID == "" {
		receiverID = property.OwnerID
	}
	if receiverID == r.UserID {
		return nil, apperr.ErrInvalidReq.Msg("cannot send a message to yourself")
	}

	if err := checkMessagePermission(property, r, receiverID); err != nil {
		return nil, err
	}
	if property.OwnerID == r.UserID {
		asked, err := s.MessageRepo.HasMessageFrom(ctx, receiverID, property.PropertyID)
		if err != nil {
			return nil, err
		}
		if !asked {
			return nil, apperr.ErrForbidden.Msg("owners can only reply to users who wrote about this property")
		}
	}

	message := &model.Message{
		MessageID:  ident.New(),
		PropertyID: property.PropertyID,
		SenderID:   r.UserID,
		ReceiverID: receiverID,
		Content:    req.Content,
	}
	if err := s.MessageRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.Events.MessageSent(ctx, MessageSent{
		MessageID:  message.MessageID,
		PropertyID: message.PropertyID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		At:         time.Now(),
	})
	return message, nil
}

func checkMessagePermission(property *model.Property, r visibility.Requester, receiverID string) error {
	senderIsOwner := property.OwnerID == r.UserID
	switch {
	case senderIsOwner:
		return nil
	case receiverID != property.OwnerID:
		return apperr.ErrForbidden.Msg("messages about a property can only be sent to its owner")
	case r.Role == model.RoleRenter && !property.Available:
		return apperr.ErrConflict.Msg("this property is not available for rent")
	default:
		return nil
	}
}

// List returns r's sent and received messages, newest first.
func (s *Message) List(ctx context.Context, r visibility.Requester, propertyID string) ([]*model.Message, error) {
	var filter *string
	if propertyID != "" {
		filter = &propertyID
	}
	return s.MessageRepo.GetMessagesForUser(ctx, r.UserID, filter)
}

// MarkRead marks a message read. Only its receiver may do so; anyone else
// sees it as missing.
func (s *Message) MarkRead(ctx context.Context, r visibility.Requester, messageID string) error {
	return s.MessageRepo.MarkRead(ctx, messageID, r.UserID)
}
