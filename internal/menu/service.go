package menu

import (
	"context"
	"errors"
	"strings"

	"github.com/Anas-Ty/restaurant-mvp/internal/orderapi"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Source is the part of the order API the menu service reads from.
type Source interface {
	MenuByQR(ctx context.Context, qrCode string) (*orderapi.MenuPayload, error)
	RestaurantCategories(ctx context.Context, restaurantID string) ([]byte, error)
	Categories(ctx context.Context) ([]byte, error)
}

type Service struct {
	source            Source
	cache             Cache
	opts              Options
	defaultRestaurant string
	sfg               singleflight.Group
}

func NewService(source Source, cache Cache, opts Options, defaultRestaurantID string) *Service {
	return &Service{
		source:            source,
		cache:             cache,
		opts:              opts,
		defaultRestaurant: defaultRestaurantID,
	}
}

func (s *Service) DefaultRestaurantID() string {
	return s.defaultRestaurant
}

// --------------------------------------------------
// Resolve picks the menu for a browsing context:
// QR code first, then the default restaurant, then the global list.
// --------------------------------------------------
func (s *Service) Resolve(ctx context.Context, qrCode string) (*Menu, error) {
	if strings.TrimSpace(qrCode) != "" {
		return s.ForQR(ctx, qrCode)
	}
	return s.Default(ctx)
}

// Peek returns the menu Resolve would serve if it is already cached.
// It never calls the order API.
func (s *Service) Peek(ctx context.Context, qrCode string) (*Menu, bool) {
	m, err := s.cache.Get(ctx, s.keyFor(qrCode))
	if err != nil {
		return nil, false
	}
	return m, true
}

func (s *Service) keyFor(qrCode string) string {
	switch {
	case strings.TrimSpace(qrCode) != "":
		return "qr:" + qrCode
	case s.defaultRestaurant != "":
		return "restaurant:" + s.defaultRestaurant
	default:
		return "all"
	}
}

func (s *Service) ForQR(ctx context.Context, qrCode string) (*Menu, error) {
	return s.load(ctx, "qr:"+qrCode, func(ctx context.Context) (*Menu, error) {
		payload, err := s.source.MenuByQR(ctx, qrCode)
		if err != nil {
			return nil, err
		}

		cats, err := Normalize(payload.Raw, s.opts)
		if err != nil {
			return nil, err
		}

		return &Menu{
			Restaurant: payload.Restaurant,
			Table:      payload.Table,
			Categories: cats,
		}, nil
	})
}

func (s *Service) ForRestaurant(ctx context.Context, restaurantID string) (*Menu, error) {
	return s.load(ctx, "restaurant:"+restaurantID, func(ctx context.Context) (*Menu, error) {
		raw, err := s.source.RestaurantCategories(ctx, restaurantID)
		if err != nil {
			return nil, err
		}

		cats, err := Normalize(raw, s.opts)
		if err != nil {
			return nil, err
		}

		return &Menu{
			Restaurant: &orderapi.Restaurant{ID: restaurantID},
			Categories: cats,
		}, nil
	})
}

func (s *Service) Default(ctx context.Context) (*Menu, error) {
	if s.defaultRestaurant != "" {
		return s.ForRestaurant(ctx, s.defaultRestaurant)
	}

	return s.load(ctx, "all", func(ctx context.Context) (*Menu, error) {
		raw, err := s.source.Categories(ctx)
		if err != nil {
			return nil, err
		}

		cats, err := Normalize(raw, s.opts)
		if err != nil {
			return nil, err
		}
		return &Menu{Categories: cats}, nil
	})
}

// Invalidate drops a cached QR menu so the next read refetches it.
func (s *Service) Invalidate(ctx context.Context, qrCode string) {
	if err := s.cache.Delete(ctx, "qr:"+qrCode); err != nil {
		log.WithError(err).Warn("[MENU] cache invalidate failed")
	}
}

func (s *Service) load(
	ctx context.Context,
	key string,
	fetch func(ctx context.Context) (*Menu, error),
) (*Menu, error) {

	// concurrent misses for one key share a single upstream call, which
	// must outlive the first caller's request
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		ctx := shared

		m, err := s.cache.Get(ctx, key)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.WithError(err).WithField("key", key).Warn("[MENU] cache get failed")
		}

		m, err = fetch(ctx)
		if err != nil {
			log.WithError(err).WithField("key", key).Error("[MENU] fetch failed")
			return nil, err
		}

		if err := s.cache.Set(ctx, key, m); err != nil {
			log.WithError(err).WithField("key", key).Warn("[MENU] cache set failed")
		}

		log.WithFields(log.Fields{
			"key":        key,
			"categories": len(m.Categories),
			"items":      len(Flatten(m.Categories)),
		}).Info("[MENU] menu loaded")

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Menu), nil
}
