package server

import (
	"context"
	"errors"
	"net/http"

	"comment-censor/internal/domain"
	"comment-censor/internal/phrases"
	"comment-censor/internal/service"

	log "github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type CensorStatus interface {
	State() service.State
	Snapshot() *phrases.Set
	Replacement() string
	Stats() service.Stats
}

type Server struct {
	phraseService service.PhraseServiceInterface
	censor        CensorStatus
	db            Pinger
}

func NewServer(phraseService service.PhraseServiceInterface, censor CensorStatus, db Pinger) *Server {
	return &Server{
		phraseService: phraseService,
		censor:        censor,
		db:            db,
	}
}

func (s *Server) HealthCheck(c echo.Context) error {
	if err := s.db.PingContext(c.Request().Context()); err != nil {
		log.WithField("error", err).Error("Health check failed: database is down")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  "database connection error",
		})
	}
	if state := s.censor.State(); state != service.StateRunning {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"censor": state.String(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

type statusResponse struct {
	State       string        `json:"state"`
	Replacement string        `json:"replacement"`
	Phrases     []string      `json:"phrases"`
	Stats       service.Stats `json:"stats"`
}

func (s *Server) CensorStatus(c echo.Context) error {
	resp := statusResponse{
		State:       s.censor.State().String(),
		Replacement: s.censor.Replacement(),
		Phrases:     []string{},
		Stats:       s.censor.Stats(),
	}
	if snap := s.censor.Snapshot(); snap != nil {
		resp.Phrases = snap.Phrases()
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) ListPhrases(c echo.Context) error {
	list, err := s.phraseService.ListPhrases(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) CreatePhrase(c echo.Context) error {
	var req domain.CreatePhraseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	created, err := s.phraseService.CreatePhrase(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhrase):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrPhraseExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, phrases.ErrCascade):
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		log.WithError(err).Error("Failed to create forbidden phrase")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.JSON(http.StatusCreated, created)
}

func (s *Server) DeletePhrase(c echo.Context) error {
	id := c.Param("id")

	if err := s.phraseService.DeletePhrase(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPhraseID):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrPhraseNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "forbidden phrase not found"})
		}
		log.WithError(err).WithField("phrase_id", id).Error("Failed to delete forbidden phrase")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}

	return c.NoContent(http.StatusNoContent)
}
