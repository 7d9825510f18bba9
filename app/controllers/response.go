package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"contenthub/app/identity"
	"contenthub/app/models"
	"contenthub/app/objectstore"
	"contenthub/app/repositories"
	"contenthub/app/services"
)

const maxUploadBytes = 12 << 20

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendMessage(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}

// sendError maps err to a status code and a message safe to show the
// caller. Unexpected errors are logged and reported generically.
func sendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verrs models.ValidationErrors
	var ierr *identity.Error
	switch {
	case errors.As(err, &verrs):
		sendJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  verrs.Error(),
			"fields": verrs,
		})
	case errors.As(err, &ierr):
		sendJSON(w, http.StatusUnauthorized, map[string]string{
			"error": identity.Message(err),
			"code":  ierr.Code,
		})
	case errors.Is(err, services.ErrUnauthenticated):
		sendMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		sendMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotConfirmed):
		sendMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		sendMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrUploadFailed):
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		sendMessage(w, http.StatusBadGateway, services.ErrUploadFailed.Error())
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		sendMessage(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return dec.Decode(dst)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formImage reads the optional "image" file from a parsed multipart form.
func formImage(r *http.Request) (*objectstore.Image, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	return &objectstore.Image{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formList reads a repeated field, also splitting comma separated values.
func formList(r *http.Request, key string) []string {
	out := []string{}
	for _, v := range r.MultipartForm.Value[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
