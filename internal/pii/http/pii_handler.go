// Package http provides HTTP handlers for PII field encryption and reveal.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
	piiDomain "github.com/isohub/securitycore/internal/pii/domain"
	"github.com/isohub/securitycore/internal/pii/http/dto"
	piiService "github.com/isohub/securitycore/internal/pii/service"
	customValidation "github.com/isohub/securitycore/internal/validation"
)

// PIIHandler handles HTTP requests for PII field encryption and reveal.
type PIIHandler struct {
	codec  *piiService.FieldCodec
	logger *slog.Logger
}

// NewPIIHandler creates a new PII field handler.
func NewPIIHandler(codec *piiService.FieldCodec, logger *slog.Logger) *PIIHandler {
	return &PIIHandler{codec: codec, logger: logger}
}

// EncryptHandler validates and encrypts a PII field value for storage.
// POST /v1/pii/encrypt
func (h *PIIHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	blob, err := h.encryptField(req.FieldType, req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.EncryptFieldResponse{
		FieldType:      req.FieldType,
		EncryptedValue: blob,
	})
}

// RevealMaskedHandler decrypts a stored blob for masked display.
// POST /v1/pii/reveal
func (h *PIIHandler) RevealMaskedHandler(c *gin.Context) {
	h.reveal(c, piiDomain.RevealMasked)
}

// RevealFullHandler decrypts a stored blob for full display.
// POST /v1/pii/reveal/full
//
// Routed behind a step-up grant: full plaintext never leaves the service on a
// session token alone.
func (h *PIIHandler) RevealFullHandler(c *gin.Context) {
	h.reveal(c, piiDomain.RevealFull)
}

func (h *PIIHandler) reveal(c *gin.Context, mode piiDomain.RevealMode) {
	var req dto.RevealFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	value, err := h.revealField(req.FieldType, req.EncryptedValue, mode)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if mode == piiDomain.RevealFull {
		if id, ok := identity.FromContext(c.Request.Context()); ok {
			h.logger.Info("pii field revealed in full",
				slog.String("field_type", req.FieldType),
				slog.String("user_id", id.UserID.String()),
				slog.String("agency_id", id.AgencyID.String()))
		}
	}

	c.JSON(http.StatusOK, dto.RevealFieldResponse{
		FieldType: req.FieldType,
		Value:     value,
		Mode:      string(mode),
	})
}

// encryptField dispatches on the validated field type.
func (h *PIIHandler) encryptField(fieldType, value string) (string, error) {
	switch fieldType {
	case dto.FieldTypeSSN:
		return h.codec.EncryptSSN(value)
	case dto.FieldTypeEIN:
		return h.codec.EncryptEIN(value)
	case dto.FieldTypeBankAccount:
		return h.codec.EncryptBankAccount(value)
	default:
		return h.codec.EncryptRoutingNumber(value)
	}
}

// revealField dispatches on the validated field type.
func (h *PIIHandler) revealField(fieldType, blob string, mode piiDomain.RevealMode) (string, error) {
	switch fieldType {
	case dto.FieldTypeSSN:
		return h.codec.RevealSSN(blob, mode)
	case dto.FieldTypeEIN:
		return h.codec.RevealEIN(blob, mode)
	case dto.FieldTypeBankAccount:
		return h.codec.RevealBankAccount(blob, mode)
	default:
		return h.codec.RevealRoutingNumber(blob, mode)
	}
}
