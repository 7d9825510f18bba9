package controllers

import (
	"net/http"

	"contenthub/app/middleware"
	"contenthub/app/models"
	"contenthub/app/services"

	"github.com/gorilla/mux"
)

// FeedController serves the public feed and post detail
type FeedController struct {
	feed    *services.FeedService
	baseURL string
}

// NewFeedController creates a new FeedController
func NewFeedController(feed *services.FeedService, baseURL string) *FeedController {
	return &FeedController{feed: feed, baseURL: baseURL}
}

// Featured handles GET /api/posts/featured
func (fc *FeedController) Featured(w http.ResponseWriter, r *http.Request) {
	items, err := fc.feed.Featured(r.Context())
	if err != nil {
		sendError(w, r, err, "Failed to load content")
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"posts": items})
}

// Index handles GET /api/feed?filter=&q=
func (fc *FeedController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ParseFeedFilter(q.Get("filter"))
	items, err := fc.feed.Fetch(r.Context(), filter)
	if err != nil {
		sendError(w, r, err, "Failed to load posts. Please try again.")
		return
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"filter": filter,
		"posts":  services.Search(items, q.Get("q")),
	})
}

// Show handles GET /api/posts/{id}
func (fc *FeedController) Show(w http.ResponseWriter, r *http.Request) {
	detail, err := fc.feed.Detail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to load post")
		return
	}
	sendJSON(w, http.StatusOK, detail)
}

// Report handles POST /api/posts/{id}/report
func (fc *FeedController) Report(w http.ResponseWriter, r *http.Request) {
	report, err := fc.feed.Report(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to report post. Please try again.")
		return
	}
	sendJSON(w, http.StatusCreated, report)
}

// Share handles GET /api/posts/{id}/share
func (fc *FeedController) Share(w http.ResponseWriter, r *http.Request) {
	item, err := fc.feed.Item(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, err, "Failed to share post")
		return
	}
	link := services.Share(item, fc.baseURL)
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"title":     link.Title,
		"text":      link.Text,
		"url":       link.URL,
		"clipboard": link.Clipboard(),
	})
}
