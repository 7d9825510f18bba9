package controllers

import (
	"net/http"
	"strconv"

	"contenthub/app/middleware"
	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/services"

	"github.com/gorilla/mux"
)

// PostController handles authoring and owner management of posts
type PostController struct {
	authoring *services.AuthoringService
	owner     *services.OwnerContentService
}

// NewPostController creates a new PostController
func NewPostController(authoring *services.AuthoringService, owner *services.OwnerContentService) *PostController {
	return &PostController{authoring: authoring, owner: owner}
}

// Create handles POST /api/posts as JSON or multipart with an image
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.Draft
	var img *objectstore.Image

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			sendMessage(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
			return
		}
		draft.Title = r.FormValue("title")
		draft.Body = r.FormValue("body")
		draft.Category = r.FormValue("category")
		for _, tag := range formList(r, "tags") {
			if err := draft.AddTag(tag); err != nil {
				sendError(w, r, models.ValidationErrors{"tags": err.Error()}, "")
				return
			}
		}
		var err error
		if img, err = formImage(r); err != nil {
			sendMessage(w, http.StatusBadRequest, "Failed to read image: "+err.Error())
			return
		}
	} else {
		var raw models.Draft
		if err := decodeJSON(r, &raw); err != nil {
			sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}
		draft = models.Draft{Title: raw.Title, Body: raw.Body, Category: raw.Category}
		for _, tag := range raw.Tags {
			if err := draft.AddTag(tag); err != nil {
				sendError(w, r, models.ValidationErrors{"tags": err.Error()}, "")
				return
			}
		}
	}

	post, err := pc.authoring.Submit(r.Context(), middleware.IdentityFrom(r.Context()), &draft, img)
	if err != nil {
		sendError(w, r, err, "Failed to publish post. Please try again.")
		return
	}
	sendJSON(w, http.StatusCreated, post)
}

// Mine handles GET /api/my/posts?q=&sort=
func (pc *PostController) Mine(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.owner.ListMine(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		sendError(w, r, err, "Failed to fetch content")
		return
	}
	q := r.URL.Query()
	posts = services.SearchOwn(posts, q.Get("q"))
	posts = services.SortOwn(posts, models.ParseSortOption(q.Get("sort")))
	sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// Edit handles PATCH /api/posts/{id}
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	var update models.PostUpdate
	var img *objectstore.Image

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			sendMessage(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
			return
		}
		if vals, ok := r.MultipartForm.Value["title"]; ok && len(vals) > 0 {
			update.Title = &vals[0]
		}
		if vals, ok := r.MultipartForm.Value["body"]; ok && len(vals) > 0 {
			update.Body = &vals[0]
		}
		var err error
		if img, err = formImage(r); err != nil {
			sendMessage(w, http.StatusBadRequest, "Failed to read image: "+err.Error())
			return
		}
	} else if err := decodeJSON(r, &update); err != nil {
		sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	post, err := pc.owner.Edit(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"], update, img)
	if err != nil {
		sendError(w, r, err, "Failed to update post. Please try again.")
		return
	}
	sendJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}?confirm=true
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	err := pc.owner.Delete(r.Context(), middleware.IdentityFrom(r.Context()), mux.Vars(r)["id"], confirmed)
	if err != nil {
		sendError(w, r, err, "Failed to delete post. Please try again.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
