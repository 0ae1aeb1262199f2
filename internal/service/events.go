package service

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"tolet.dev/backend/internal/constant"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/pkg/observability"
)

type PropertyChangeKind string

const (
	PropertyCreated      PropertyChangeKind = "created"
	PropertyUpdated      PropertyChangeKind = "updated"
	PropertyApproved     PropertyChangeKind = "approved"
	PropertyRejected     PropertyChangeKind = "rejected"
	PropertyDeleted      PropertyChangeKind = "deleted"
	PropertyAvailability PropertyChangeKind = "availability"
)

type PropertyChanged struct {
	PropertyID string             `json:"propertyId"`
	OwnerID    string             `json:"ownerId"`
	Kind       PropertyChangeKind `json:"kind"`
	// Origin is the instance that made the change.
	Origin string    `json:"origin"`
	At     time.Time `json:"at"`
}

type MessageSent struct {
	MessageID  string    `json:"messageId"`
	PropertyID string    `json:"propertyId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	At         time.Time `json:"at"`
}

// Events broadcasts domain changes over core NATS. Every instance subscribes
// to property changes to drop its in-process listing snapshot.
type Events struct {
	NatsConn *nats.Conn

	// InstanceID identifies this process in published events.
	InstanceID string
}

func NewEvents(natsConn *nats.Conn) *Events {
	return &Events{
		NatsConn:   natsConn,
		InstanceID: xid.New().String(),
	}
}

// PropertyChanged invalidates the local listing snapshot right away and
// tells the other instances to do the same. Publish failures are logged
// only; peers fall back to the snapshot TTL.
func (s *Events) PropertyChanged(ctx context.Context, propertyID, ownerID string, kind PropertyChangeKind) {
	if err := modelcache.PropertySnapshot.Delete(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("evt.name", "events.snapshot.flush.failed").Msg("failed to flush listing snapshot")
	}
	observability.DomainEvents.WithLabelValues("property." + string(kind)).Inc()

	s.publish(ctx, constant.SubjectPropertyChanged, PropertyChanged{
		PropertyID: propertyID,
		OwnerID:    ownerID,
		Kind:       kind,
		Origin:     s.InstanceID,
		At:         time.Now(),
	})
}

func (s *Events) MessageSent(ctx context.Context, evt MessageSent) {
	observability.DomainEvents.WithLabelValues("message.sent").Inc()
	s.publish(ctx, constant.SubjectMessageSent, evt)
}

func (s *Events) publish(ctx context.Context, subject string, v any) {
	if s.NatsConn == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("evt.name", "events.marshal.failed").Str("subject", subject).Msg("failed to marshal event")
		return
	}
	if err := s.NatsConn.Publish(subject, b); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("evt.name", "events.publish.failed").Str("subject", subject).Msg("failed to publish event")
	}
}
