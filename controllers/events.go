package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Tharoon321/events-api/models"
	"github.com/Tharoon321/events-api/notify"
	"github.com/Tharoon321/events-api/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// EventStore is what the event handlers need from persistence.
type EventStore interface {
	UpsertTeam(ctx context.Context, id, createdAt string) (bool, error)
	InsertEvent(ctx context.Context, event *models.Event) (string, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, limit int64) ([]models.Event, error)
}

// EventController serves the event routes.
type EventController struct {
	store     EventStore
	publisher notify.Publisher
	clock     clockwork.Clock
	timeout   time.Duration
}

// NewEventController wires the handlers. A nil publisher disables
// notifications and a nil clock uses the wall clock.
func NewEventController(st EventStore, publisher notify.Publisher, clock clockwork.Clock, timeout time.Duration) *EventController {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &EventController{
		store:     st,
		publisher: publisher,
		clock:     clock,
		timeout:   timeout,
	}
}

// AddEvent validates the body, makes sure every referenced team exists and
// stores the event.
func (ec *EventController) AddEvent(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, validationError(msgInvalidBody))
		return
	}
	payload, err := decodePayload(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("rejecting event: invalid body")
		writeError(c, validationError(msgInvalidBody))
		return
	}
	if missing := payload.missingFields(); len(missing) > 0 {
		logger.Debug().Strs("missing", missing).Msg("rejecting event: missing fields")
		writeError(c, validationError(msgMissingFields))
		return
	}

	id, err := ec.addEvent(c.Request.Context(), payload)
	if err != nil {
		logger.Error().Err(err).Interface("title", payload["title"]).Msg("error adding event")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": msgEventAdded,
		"id":      id,
	})
}

func (ec *EventController) addEvent(ctx context.Context, payload eventPayload) (string, error) {
	if ec.store == nil {
		return "", configurationError(msgDBNotConfigured, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, ec.timeout)
	defer cancel()

	teams := payload.teamIDs()
	if err := ec.ensureTeams(ctx, teams); err != nil {
		return "", persistenceError(err)
	}

	event, err := payload.toEvent(teams, ec.clock.Now())
	if err != nil {
		return "", persistenceError(err)
	}

	id, err := ec.store.InsertEvent(ctx, event)
	if err != nil {
		return "", persistenceError(err)
	}

	if err := ec.publisher.PublishEventCreated(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event_id", id).Msg("could not publish event")
	}
	return id, nil
}

// ensureTeams upserts all teams concurrently and returns the first failure
// once every upsert has finished.
func (ec *EventController) ensureTeams(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	createdAt := models.FormatISO(ec.clock.Now())
	g, gctx := errgroup.WithContext(ctx)
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		id := id
		g.Go(func() error {
			created, err := ec.store.UpsertTeam(gctx, id, createdAt)
			if err != nil {
				return fmt.Errorf("upsert team %q: %w", id, err)
			}
			if created {
				zerolog.Ctx(ctx).Debug().Str("team", id).Msg("team created")
			}
			return nil
		})
	}
	return g.Wait()
}

// ListEvents returns the latest events, newest start time first.
func (ec *EventController) ListEvents(c *gin.Context) {
	if ec.store == nil {
		writeError(c, configurationError(msgDBNotConfigured, nil))
		return
	}

	limit := int64(defaultListLimit)
	if val := c.Query("limit"); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxListLimit)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ec.timeout)
	defer cancel()

	events, err := ec.store.ListEvents(ctx, limit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list events")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent fetches a single event by its hex id.
func (ec *EventController) GetEvent(c *gin.Context) {
	if ec.store == nil {
		writeError(c, configurationError(msgDBNotConfigured, nil))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ec.timeout)
	defer cancel()

	ev, err := ec.store.GetEvent(ctx, c.Param("id"))
	switch {
	case errors.Is(err, store.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	case err != nil:
		zerolog.Ctx(ctx).Error().Err(err).Str("event_id", c.Param("id")).Msg("get event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch event"})
		return
	}

	c.JSON(http.StatusOK, ev)
}
