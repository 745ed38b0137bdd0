package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/api/http/converter"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/service"
)

type RoomController struct {
	rooms    service.RoomInteractor
	timeline service.TimelineInteractor
	quizzes  service.QuizInteractor
	images   service.ImageInteractor
}

func NewRoomController(
	rooms service.RoomInteractor,
	timeline service.TimelineInteractor,
	quizzes service.QuizInteractor,
	images service.ImageInteractor,
) *RoomController {
	return &RoomController{rooms: rooms, timeline: timeline, quizzes: quizzes, images: images}
}

func (c *RoomController) CreateRoom(ctx *gin.Context) {
	type request struct {
		Name string `json:"name" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	room, err := c.rooms.CreateRoom(ctx.Request.Context(), mustPrincipal(ctx).Member(), req.Name)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) GetRoom(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	room, err := c.rooms.GetRoom(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) UpdateRoom(ctx *gin.Context) {
	type request struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}

	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	room, err := c.rooms.UpdateRoom(ctx.Request.Context(), mustPrincipal(ctx).Member(), roomID, domain.RoomUpdate{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"room": converter.RoomToApi(room)})
}

func (c *RoomController) DeleteRoom(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	if err := c.rooms.DeleteRoom(ctx.Request.Context(), mustPrincipal(ctx).Member(), roomID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *RoomController) ResolveCode(ctx *gin.Context) {
	room, err := c.rooms.ResolveCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"id": room.ID})
}

func (c *RoomController) ListMine(ctx *gin.Context) {
	rooms, err := c.rooms.ListMyRooms(ctx.Request.Context(), mustPrincipal(ctx).Member())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rooms": converter.RoomsToApi(rooms)})
}

// History returns the viewer's timeline for the room. limit keeps only the
// most recent entries.
func (c *RoomController) History(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(ctx, "invalid limit", err)
			return
		}
		limit = n
	}

	room, err := c.rooms.ResolveCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		writeError(ctx, err)
		return
	}

	viewer := mustPrincipal(ctx).ID
	events, err := c.timeline.BuildHistory(ctx.Request.Context(), room.ID, &viewer)
	if err != nil {
		writeError(ctx, err)
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	ctx.JSON(http.StatusOK, gin.H{"history": events})
}

func (c *RoomController) ListParticipants(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	members, err := c.rooms.ListParticipants(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"participants": members})
}

func (c *RoomController) Ranking(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	ranking, err := c.quizzes.RoomRanking(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ranking": ranking})
}

func (c *RoomController) ListQuizzes(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	principal := mustPrincipal(ctx)
	quizzes, err := c.quizzes.ListRoomQuizzes(ctx.Request.Context(), principal.Member(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"quizzes": converter.QuizzesToApi(quizzes, principal.Role == domain.RoleProfessor)})
}

func (c *RoomController) MainImageUploadURL(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	ticket, err := c.images.MainUploadURL(ctx.Request.Context(), roomID, ctx.Query("fileName"), ctx.Query("contentType"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ticket)
}

func (c *RoomController) MainImageDownloadURL(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	url, err := c.images.MainDownloadURL(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

func (c *RoomController) GalleryUploadURL(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	ticket, err := c.images.GalleryUploadURL(ctx.Request.Context(), mustPrincipal(ctx).Member(), roomID, ctx.Query("fileName"), ctx.Query("contentType"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ticket)
}

func (c *RoomController) ListGallery(ctx *gin.Context) {
	roomID, ok := uintParam(ctx, "roomID")
	if !ok {
		return
	}

	images, err := c.images.ListGallery(ctx.Request.Context(), roomID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"images": images})
}
