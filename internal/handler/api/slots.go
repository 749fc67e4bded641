package api

import (
	"net/http"

	resdto "tutorbook/internal/handler/dto/response"
	"tutorbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotQueries queries.SlotQueries
}

func NewSlotHandler(slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotQueries: slotQueries,
	}
}

// @Summary List available slots
// @Description Open slots of a teacher over the rolling booking window
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /teachers/{id}/slots [get]
func (h *SlotHandler) ListAvailableSlots(c *gin.Context) {
	teacherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid teacher ID format"})
		return
	}

	views, err := h.slotQueries.ListOpenSlots(c.Request.Context(), teacherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotViews(views))
}
