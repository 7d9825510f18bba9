package controllers

import (
	"net/http"

	"contenthub/app/middleware"
	"contenthub/app/services"

	"github.com/gorilla/mux"
)

// LikeController exposes the like toggle
type LikeController struct {
	likes *services.LikeService
}

// NewLikeController creates a new LikeController
func NewLikeController(likes *services.LikeService) *LikeController {
	return &LikeController{likes: likes}
}

// Status handles GET /api/posts/{id}/likes
func (lc *LikeController) Status(w http.ResponseWriter, r *http.Request) {
	state, err := lc.likes.Status(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to load likes")
		return
	}
	sendJSON(w, http.StatusOK, state)
}

// Toggle handles POST /api/posts/{id}/likes/toggle
func (lc *LikeController) Toggle(w http.ResponseWriter, r *http.Request) {
	state, err := lc.likes.Toggle(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to update like")
		return
	}
	sendJSON(w, http.StatusOK, state)
}
