// Package invalidatewkr keeps the in-process listing snapshot of this
// instance in step with writes made on other instances.
package invalidatewkr

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/constant"
	modelcache "tolet.dev/backend/internal/model/cache"
	"tolet.dev/backend/internal/pkg/observability"
	"tolet.dev/backend/internal/service"
)

type WorkerDeps struct {
	fx.In

	Events *service.Events
}

type Worker struct {
	WorkerDeps

	msgChan chan *nats.Msg
	sub     *nats.Subscription
	done    chan struct{}
}

func Start(lc fx.Lifecycle, deps WorkerDeps) {
	w := &Worker{
		WorkerDeps: deps,
		msgChan:    make(chan *nats.Msg, 64),
		done:       make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if w.Events.NatsConn == nil {
				log.Warn().
					Str("evt.name", "worker.invalidate.disabled").
					Msg("no NATS connection, listing snapshots of other instances expire by TTL only")
				return nil
			}

			sub, err := w.Events.NatsConn.ChanSubscribe(constant.SubjectPropertyChanged, w.msgChan)
			if err != nil {
				return err
			}
			w.sub = sub
			go w.Consume()

			log.Info().
				Str("evt.name", "worker.invalidate.started").
				Str("instance", w.Events.InstanceID).
				Msg("listening for property changes")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if w.sub == nil {
				return nil
			}
			err := w.sub.Unsubscribe()
			close(w.done)
			return err
		},
	})
}

func (w *Worker) Consume() {
	for {
		select {
		case msg := <-w.msgChan:
			w.Handle(msg.Data)
		case <-w.done:
			return
		}
	}
}

// Handle flushes the snapshot for a change made elsewhere. It reports
// whether the snapshot was flushed.
func (w *Worker) Handle(data []byte) bool {
	var evt service.PropertyChanged
	if err := json.Unmarshal(data, &evt); err != nil {
		log.Warn().
			Err(err).
			Str("evt.name", "worker.invalidate.decode.failed").
			Msg("ignoring malformed property change event")
		return false
	}

	// our own writes flushed the snapshot synchronously
	if evt.Origin == w.Events.InstanceID {
		return false
	}

	if err := modelcache.PropertySnapshot.Delete(); err != nil {
		log.Error().
			Err(err).
			Str("evt.name", "worker.invalidate.flush.failed").
			Msg("failed to flush listing snapshot")
		return false
	}
	observability.ListingSnapshotRefresh.WithLabelValues("invalidated").Inc()

	log.Debug().
		Str("evt.name", "worker.invalidate.flushed").
		Str("property_id", evt.PropertyID).
		Str("kind", string(evt.Kind)).
		Str("origin", evt.Origin).
		Msg("listing snapshot flushed by remote change")
	return true
}
