package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Tharoon321/events-api/models"
	"github.com/Tharoon321/events-api/store"
)

// TeamStore is what the team handlers need from persistence.
type TeamStore interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

// TeamController serves the team routes.
type TeamController struct {
	store   TeamStore
	timeout time.Duration
}

// NewTeamController wires the handlers. A non-positive timeout means 5s.
func NewTeamController(st TeamStore, timeout time.Duration) *TeamController {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TeamController{store: st, timeout: timeout}
}

// GetTeam returns the team record for the given identifier.
func (tc *TeamController) GetTeam(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), tc.timeout)
	defer cancel()

	team, err := tc.store.GetTeam(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "team not found"})
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("team", c.Param("id")).Msg("get team")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch team"})
		return
	}

	c.JSON(http.StatusOK, team)
}
