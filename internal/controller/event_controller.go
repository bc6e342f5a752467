package controller

import (
	"strconv"

	"meetup_bot/internal/service"
	"meetup_bot/internal/util"

	"github.com/gin-gonic/gin"
)

type EventController struct {
	Events *service.EventService
}

func NewEventController(events *service.EventService) *EventController {
	return &EventController{Events: events}
}

func (c *EventController) ListEvents(ctx *gin.Context) {
	events, err := c.Events.All()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"events": events, "total": len(events)})
}

// GetEvent returns one event with its participant list, organizer first.
func (c *EventController) GetEvent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	event, _, err := c.Events.Get(uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if event == nil {
		util.NotFound(ctx)
		return
	}

	participants, err := c.Events.ListParticipants(event.ID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"event":        event,
		"participants": participants,
	})
}
