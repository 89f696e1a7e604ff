package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"interviewassist/internal/interview"
	"interviewassist/internal/middleware"
	"interviewassist/internal/models"
	"interviewassist/internal/utils"
)

type ConfigHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewConfigHandler(service *interview.Service, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{service: service, logger: logger}
}

func (h *ConfigHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.service.Settings())
}

func (h *ConfigHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.SettingsRequest](r)

	settings, err := h.service.UpdateSettings(r.Context(), *req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("Interview settings updated",
		zap.String("role", settings.Role),
		zap.Strings("difficulty_order", settings.DifficultyOrder))
	utils.JSON(w, http.StatusOK, settings)
}
