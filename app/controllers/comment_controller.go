package controllers

import (
	"log"
	"net/http"
	"time"

	"contenthub/app/middleware"
	"contenthub/app/services"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	upgrader       websocket.Upgrader
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
		upgrader:       websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

// Index handles GET /api/posts/{id}/comments
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	views, err := cc.commentService.ThreadView(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to load comments")
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"comments": views})
}

// Create handles POST /api/posts/{id}/comments
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	comment, err := cc.commentService.Add(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"], req.Text)
	if err != nil {
		sendError(w, r, err, "Failed to add comment")
		return
	}
	sendJSON(w, http.StatusCreated, comment)
}

// Edit handles PUT /api/comments/{id}
func (cc *CommentController) Edit(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	comment, err := cc.commentService.Edit(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"], req.Text)
	if err != nil {
		sendError(w, r, err, "Failed to update comment")
		return
	}
	sendJSON(w, http.StatusOK, comment)
}

// Delete handles DELETE /api/comments/{id}
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := cc.commentService.Delete(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		sendError(w, r, err, "Failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Live handles GET /api/posts/{id}/comments/live. Every change to the
// thread is pushed as a full snapshot until the client disconnects.
func (cc *CommentController) Live(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	sub, err := cc.commentService.Subscribe(r.Context(), postID)
	if err != nil {
		sendError(w, r, err, "Failed to load comments")
		return
	}
	defer sub.Cancel()

	conn, err := cc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	// The read loop only watches for the client going away.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	who := middleware.IdentityFrom(r.Context())
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			views := make([]services.CommentView, len(snapshot))
			for i, c := range snapshot {
				views[i] = services.CommentView{Comment: c, Controls: services.Permissions(who, c)}
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(map[string]interface{}{"postId": postID, "comments": views}); err != nil {
				log.Printf("Live comments write error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
