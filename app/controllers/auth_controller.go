package controllers

import (
	"net/http"

	"contenthub/app/identity"
	"contenthub/app/middleware"
)

// AuthController handles signup, sign-in and sign-out.
type AuthController struct {
	gate *identity.Gate
}

// NewAuthController creates a new AuthController
func NewAuthController(gate *identity.Gate) *AuthController {
	return &AuthController{gate: gate}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp handles POST /api/auth/signup
func (ac *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req identity.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	session, err := ac.gate.SignUp(r.Context(), req)
	if err != nil {
		sendError(w, r, err, "Authentication failed")
		return
	}
	sendJSON(w, http.StatusCreated, session)
}

// SignIn handles POST /api/auth/signin
func (ac *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		sendMessage(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	session, err := ac.gate.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		sendError(w, r, err, "Authentication failed")
		return
	}
	sendJSON(w, http.StatusOK, session)
}

// SignOut handles POST /api/auth/signout
func (ac *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := ac.gate.SignOut(r.Context(), middleware.BearerToken(r)); err != nil {
		sendError(w, r, err, "Failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, middleware.IdentityFrom(r.Context()))
}
