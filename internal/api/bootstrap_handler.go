package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gomediate/app"
	"gomediate/domain/mediation"
	apperrors "gomediate/internal/errors"

	"github.com/gin-gonic/gin"
)

// BootstrapRequest is the body of POST /api/v1/bootstrap.
//
// Either Paths and Covariance describe a fitted structure directly, or Data
// holds the observation columns and Variables names their roles. Config
// fields left out take the server defaults.
type BootstrapRequest struct {
	Variables  *mediation.Variables `json:"variables,omitempty"`
	Paths      *mediation.Paths     `json:"paths,omitempty"`
	Covariance [][]float64          `json:"covariance,omitempty"`
	Data       map[string][]float64 `json:"data,omitempty"`
	Config     json.RawMessage      `json:"config,omitempty"`
}

func (s *Server) handleBootstrap(c *gin.Context) {
	var body BootstrapRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, apperrors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	req, err := s.buildRequest(body)
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := s.service.Run(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) buildRequest(body BootstrapRequest) (app.BootstrapRequest, error) {
	cfg := s.defaults
	if s.defaults.Seed != nil {
		// Unmarshal writes through existing pointers
		seed := *s.defaults.Seed
		cfg.Seed = &seed
	}
	if len(body.Config) > 0 {
		if err := json.Unmarshal(body.Config, &cfg); err != nil {
			return app.BootstrapRequest{}, apperrors.InvalidInput(fmt.Sprintf("invalid config: %v", err))
		}
	}
	if limit := s.cfg.MaxBootstrapIterations; limit > 0 && cfg.Normalized().Method.Resamples() && cfg.NBoot > limit {
		return app.BootstrapRequest{}, apperrors.InvalidInput(fmt.Sprintf("n_boot %d exceeds the server limit of %d", cfg.NBoot, limit))
	}

	switch {
	case body.Paths != nil && body.Data != nil:
		return app.BootstrapRequest{}, apperrors.InvalidInput("send either paths and covariance or data, not both")

	case body.Paths != nil:
		vars := defaultVariables(len(body.Paths.D) + 1)
		if body.Variables != nil {
			vars = *body.Variables
		}
		structure, err := mediation.NewStructure(vars, *body.Paths, body.Covariance)
		if err != nil {
			return app.BootstrapRequest{}, err
		}
		return app.BootstrapRequest{Structure: structure, Config: cfg}, nil

	case body.Data != nil:
		if body.Variables == nil {
			return app.BootstrapRequest{}, apperrors.InvalidInput("variables are required with data")
		}
		data, err := mediation.NewDataset(body.Data)
		if err != nil {
			return app.BootstrapRequest{}, err
		}
		return app.BootstrapRequest{Data: data, Variables: *body.Variables, Config: cfg}, nil
	}
	return app.BootstrapRequest{}, apperrors.InvalidInput("either paths or data is required")
}

// defaultVariables names a chain x -> m1 -> ... -> mk -> y
func defaultVariables(mediators int) mediation.Variables {
	names := make([]string, mediators)
	for i := range names {
		names[i] = fmt.Sprintf("m%d", i+1)
	}
	return mediation.Variables{Treatment: "x", Mediators: names, Outcome: "y"}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Errorw("bootstrap request failed", "error", err)
	} else {
		s.log.Debugw("bootstrap request rejected", "error", err, "status", status)
	}
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    apperrors.GetCode(err),
			"message": err.Error(),
		},
	})
}
