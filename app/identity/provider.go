package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const minPasswordLen = 6

// SignUpRequest carries the signup form.
type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session is an issued bearer token and the identity it carries.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Identity  models.Identity `json:"identity"`
}

// Provider authenticates users and resolves bearer tokens.
type Provider interface {
	SignUp(ctx context.Context, req SignUpRequest) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

type claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo,omitempty"`
	jwt.RegisteredClaims
}

// LocalProvider keeps credentials in a CredentialRepository and issues
// HS256 tokens.
type LocalProvider struct {
	users  repositories.UserRepository
	creds  repositories.CredentialRepository
	secret []byte
	ttl    time.Duration
	cost   int

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewLocalProvider returns a provider signing tokens with secret.
func NewLocalProvider(users repositories.UserRepository, creds repositories.CredentialRepository, secret string, ttl time.Duration) *LocalProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LocalProvider{
		users:   users,
		creds:   creds,
		secret:  []byte(secret),
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		revoked: make(map[string]time.Time),
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (p *LocalProvider) WithHashCost(cost int) *LocalProvider {
	p.cost = cost
	return p
}

func (p *LocalProvider) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return nil, &Error{Code: CodeMissingFields, Err: errors.New("Please fill in all required fields")}
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, codeErr(CodeInvalidEmail)
	}
	if len(req.Password) < minPasswordLen {
		return nil, codeErr(CodeWeakPassword)
	}

	if _, err := p.creds.GetByEmail(ctx, req.Email); err == nil {
		return nil, codeErr(CodeEmailInUse)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	cred := &repositories.Credential{Email: req.Email, UID: uid.String(), PasswordHash: string(hash)}
	if err := p.creds.Create(ctx, cred); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, codeErr(CodeEmailInUse)
		}
		return nil, err
	}

	user := &models.User{
		ID:          cred.UID,
		DisplayName: req.Username,
		Email:       cred.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
	}
	if err := p.users.Create(ctx, user); err != nil {
		if derr := p.creds.Delete(ctx, cred.Email); derr != nil {
			log.Printf("Failed to release credential for %s: %v", cred.Email, derr)
		}
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	return p.issue(user.Identity())
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &Error{Code: CodeMissingFields, Err: errors.New("Please enter email and password")}
	}
	if !emailRegex.MatchString(email) {
		return nil, codeErr(CodeInvalidEmail)
	}

	cred, err := p.creds.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, codeErr(CodeUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, codeErr(CodeWrongPassword)
	}

	user, err := p.users.GetByID(ctx, cred.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}
	return p.issue(user.Identity())
}

// SignOut revokes the token until it would have expired anyway.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	c, err := p.parse(token)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[c.ID] = c.ExpiresAt.Time
	p.pruneLocked(time.Now())
	return nil
}

func (p *LocalProvider) Verify(ctx context.Context, token string) (*models.Identity, error) {
	c, err := p.parse(token)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	_, revoked := p.revoked[c.ID]
	p.mu.Unlock()
	if revoked {
		return nil, codeErr(CodeInvalidToken)
	}
	return &models.Identity{
		UID:         c.Subject,
		DisplayName: c.Name,
		Email:       c.Email,
		PhotoURL:    c.Photo,
	}, nil
}

func (p *LocalProvider) issue(who models.Identity) (*Session, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expires := now.Add(p.ttl)
	c := claims{
		Name:  who.DisplayName,
		Email: who.Email,
		Photo: who.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   who.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Session{Token: signed, ExpiresAt: expires, Identity: who}, nil
}

func (p *LocalProvider) parse(token string) (*claims, error) {
	var c claims
	t, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid || c.Subject == "" {
		return nil, &Error{Code: CodeInvalidToken, Err: err}
	}
	return &c, nil
}

func (p *LocalProvider) pruneLocked(now time.Time) {
	for id, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, id)
		}
	}
}
