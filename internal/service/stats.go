package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"tolet.dev/backend/internal/model"
	"tolet.dev/backend/internal/pkg/apperr"
	"tolet.dev/backend/internal/pkg/visibility"
	"tolet.dev/backend/internal/repo"
)

// The counters the profile statistics are built from.
type (
	UserCounter interface {
		CountUsersByRole(ctx context.Context) (map[model.Role]int, error)
	}
	PropertyCounter interface {
		CountByOwner(ctx context.Context, ownerID string) (*repo.OwnerListingCounts, error)
		CountProperties(ctx context.Context) (int, error)
		CountPending(ctx context.Context) (int, error)
	}
	FavoriteCounter interface {
		CountByUser(ctx context.Context, userID string) (int, error)
		CountForOwner(ctx context.Context, ownerID string) (int, error)
	}
	MessageCounter interface {
		CountSent(ctx context.Context, senderID string) (int, error)
		CountReceived(ctx context.Context, receiverID string) (int, error)
		CountUnread(ctx context.Context, receiverID string) (int, error)
		CountMessages(ctx context.Context) (int, error)
	}
)

var (
	_ UserCounter     = (*repo.User)(nil)
	_ PropertyCounter = (*repo.Property)(nil)
	_ FavoriteCounter = (*repo.Favorite)(nil)
	_ MessageCounter  = (*repo.Message)(nil)
)

type Stats struct {
	UserRepo     UserCounter
	PropertyRepo PropertyCounter
	FavoriteRepo FavoriteCounter
	MessageRepo  MessageCounter
}

func NewStats(userRepo *repo.User, propertyRepo *repo.Property, favoriteRepo *repo.Favorite, messageRepo *repo.Message) *Stats {
	return &Stats{
		UserRepo:     userRepo,
		PropertyRepo: propertyRepo,
		FavoriteRepo: favoriteRepo,
		MessageRepo:  messageRepo,
	}
}

// ProfileStats aggregates the dashboard counters of r's role. The counts
// are queried concurrently.
func (s *Stats) ProfileStats(ctx context.Context, r visibility.Requester) (*model.ProfileStats, error) {
	if !r.Authenticated() {
		return nil, apperr.ErrUnauthorized
	}

	stats := &model.ProfileStats{Role: r.Role}
	var err error
	switch r.Role {
	case model.RoleRenter:
		stats.Renter, err = s.renter(ctx, r.UserID)
	case model.RoleOwner:
		stats.Owner, err = s.owner(ctx, r.UserID)
	case model.RoleAdmin:
		stats.Admin, err = s.admin(ctx)
	default:
		return nil, apperr.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Stats) renter(ctx context.Context, userID string) (*model.RenterStats, error) {
	var st model.RenterStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.Favorites, err = s.FavoriteRepo.CountByUser(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		st.MessagesSent, err = s.MessageRepo.CountSent(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		st.UnreadMessages, err = s.MessageRepo.CountUnread(ctx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Stats) owner(ctx context.Context, userID string) (*model.OwnerStats, error) {
	var st model.OwnerStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.PropertyRepo.CountByOwner(ctx, userID)
		if err != nil {
			return err
		}
		st.Listings = counts.Total
		st.Approved = counts.Approved
		st.Pending = counts.Total - counts.Approved
		st.Available = counts.Available
		return nil
	})
	g.Go(func() (err error) {
		st.FavoritesReceived, err = s.FavoriteRepo.CountForOwner(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		st.MessagesReceived, err = s.MessageRepo.CountReceived(ctx, userID)
		return
	})
	g.Go(func() (err error) {
		st.UnreadMessages, err = s.MessageRepo.CountUnread(ctx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Stats) admin(ctx context.Context) (*model.AdminStats, error) {
	var st model.AdminStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.UsersByRole, err = s.UserRepo.CountUsersByRole(ctx)
		return
	})
	g.Go(func() (err error) {
		st.Properties, err = s.PropertyRepo.CountProperties(ctx)
		return
	})
	g.Go(func() (err error) {
		st.PendingApprovals, err = s.PropertyRepo.CountPending(ctx)
		return
	})
	g.Go(func() (err error) {
		st.Messages, err = s.MessageRepo.CountMessages(ctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
