package api

import (
	"bytes"
	"errors"
	"net/http"

	"ACATN/pkg/config"
	xhttp "ACATN/pkg/http"
	xlogger "ACATN/pkg/logger"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

// SnapshotReader is the read side of config.Registry.
type SnapshotReader interface {
	Snapshot() (*config.Snapshot, error)
	State() config.State
}

// ConfigRequest selects part of the configuration document.
type ConfigRequest struct {
	Section string `query:"section" validate:"omitempty,oneof=credential limits learning"`
	Format  string `query:"format" default:"json" validate:"oneof=json yaml"`
}

// CredentialStatus reports credential validity without exposing secrets.
type CredentialStatus struct {
	Valid    bool                  `json:"valid"`
	Problems []config.FieldProblem `json:"problems,omitempty"`
}

// ConfigHandler serves the published configuration, always redacted.
type ConfigHandler struct {
	logger *xlogger.Logger
	reader SnapshotReader
}

func NewConfigHandler(logger *xlogger.Logger, reader SnapshotReader) *ConfigHandler {
	return &ConfigHandler{logger: logger, reader: reader}
}

func (h *ConfigHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/v1/config")
	g.GET("", h.Config)
	g.GET("/credentials", h.Credentials)
	g.GET("/defaults", h.Defaults)
}

func (h *ConfigHandler) Health(c echo.Context) error {
	state := h.reader.State()
	status := http.StatusOK
	if state != config.StateReady {
		status = http.StatusServiceUnavailable
	}
	return xhttp.DataResponse(c, status, map[string]string{"state": state.String()})
}

func (h *ConfigHandler) Config(c echo.Context) error {
	req := &ConfigRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.snapshot()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	var body any = snap.SerializeRedacted()
	if req.Section != "" {
		body = snap.SerializeRedacted()[req.Section]
	}

	if req.Format == "yaml" {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(body); err != nil {
			h.logger.Error("encode config yaml", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("configuration could not be encoded").WithError(err))
		}
		_ = enc.Close()
		return c.Blob(http.StatusOK, "application/yaml", buf.Bytes())
	}
	return xhttp.SuccessResponse(c, body)
}

func (h *ConfigHandler) Credentials(c echo.Context) error {
	snap, err := h.snapshot()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, CredentialStatus{
		Valid:    snap.CredentialsValid(),
		Problems: snap.CredentialValidation().Problems,
	})
}

func (h *ConfigHandler) Defaults(c echo.Context) error {
	return xhttp.SuccessResponse(c, config.DefaultsTable())
}

func (h *ConfigHandler) snapshot() (*config.Snapshot, error) {
	snap, err := h.reader.Snapshot()
	if err == nil {
		return snap, nil
	}
	if errors.Is(err, config.ErrUninitialized) {
		return nil, xhttp.UnavailableError("configuration not initialized").WithError(err)
	}
	h.logger.Error("configuration unavailable", xlogger.Error(err))
	return nil, xhttp.UnavailableError("configuration failed to initialize").WithError(err)
}
