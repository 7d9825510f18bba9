package mock

import (
	"context"
	"sync"

	"contenthub/app/models"
	"contenthub/app/repositories"

	"github.com/google/uuid"
)

type PostRepository struct {
	posts map[string]*models.Post
	mutex sync.RWMutex
	// Fail, when set, is returned by every call.
	Fail error
}

type CommentRepository struct {
	comments map[string]*models.Comment
	mutex    sync.RWMutex
	Fail     error
}

type UserRepository struct {
	users map[string]*models.User
	mutex sync.RWMutex
	Fail  error
}

type ReportRepository struct {
	reports []*models.Report
	mutex   sync.RWMutex
}

type CredentialRepository struct {
	creds map[string]*repositories.Credential
	mutex sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*models.Post)}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]*models.Comment)}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*models.User)}
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{creds: make(map[string]*repositories.Credential)}
}

// NewSet returns an in-memory repositories.Set.
func NewSet() repositories.Set {
	return repositories.Set{
		Posts:       NewPostRepository(),
		Comments:    NewCommentRepository(),
		Users:       NewUserRepository(),
		Reports:     NewReportRepository(),
		Credentials: NewCredentialRepository(),
		Close:       func() error { return nil },
	}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Likes = append([]string{}, p.Likes...)
	cp.Tags = append([]string{}, p.Tags...)
	return &cp
}

// PostRepository implementation
func (m *PostRepository) Create(ctx context.Context, post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	post.ID = uuid.NewString()
	post.CreatedAt = repositories.Now()
	if post.Likes == nil {
		post.Likes = []string{}
	}
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return clonePost(post), nil
}

func (m *PostRepository) Query(ctx context.Context, q repositories.PostQuery) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	posts := []*models.Post{}
	for _, post := range m.posts {
		if q.CreatorID != "" && post.CreatorID != q.CreatorID {
			continue
		}
		posts = append(posts, clonePost(post))
	}
	repositories.SortPosts(posts, q.Order)
	if q.Limit > 0 && len(posts) > q.Limit {
		posts = posts[:q.Limit]
	}
	return posts, nil
}

func (m *PostRepository) Update(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	post.Apply(update, repositories.Now())
	return clonePost(post), nil
}

func (m *PostRepository) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *PostRepository) AddLiker(ctx context.Context, postID, uid string) ([]string, error) {
	return m.mutateLikes(postID, func(likes []string) []string {
		return models.AddLiker(likes, uid)
	})
}

func (m *PostRepository) RemoveLiker(ctx context.Context, postID, uid string) ([]string, error) {
	return m.mutateLikes(postID, func(likes []string) []string {
		return models.RemoveLiker(likes, uid)
	})
}

func (m *PostRepository) mutateLikes(postID string, fn func([]string) []string) ([]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	post, exists := m.posts[postID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	post.Likes = fn(post.Likes)
	return append([]string{}, post.Likes...), nil
}

func (m *PostRepository) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	post, exists := m.posts[postID]
	if !exists {
		return repositories.ErrNotFound
	}
	post.Comments += delta
	if post.Comments < 0 {
		post.Comments = 0
	}
	return nil
}

// CommentRepository implementation
func (m *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	comment.ID = uuid.NewString()
	comment.CreatedAt = repositories.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			cp := *comment
			comments = append(comments, &cp)
		}
	}
	repositories.SortComments(comments)
	return comments, nil
}

func (m *CommentRepository) CountByPost(ctx context.Context, postID string) (int, error) {
	comments, err := m.ListByPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	return len(comments), nil
}

func (m *CommentRepository) Update(ctx context.Context, id, text string) (*models.Comment, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	comment.Text = text
	comment.UpdatedAt = repositories.Now()
	cp := *comment
	return &cp, nil
}

func (m *CommentRepository) Delete(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
	return nil
}

// UserRepository implementation
func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Fail != nil {
		return m.Fail
	}

	if _, exists := m.users[user.ID]; exists {
		return repositories.ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = repositories.Now()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *UserRepository) GetMany(ctx context.Context, ids []string) (map[string]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Fail != nil {
		return nil, m.Fail
	}

	out := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if user, exists := m.users[id]; exists {
			cp := *user
			out[id] = &cp
		}
	}
	return out, nil
}

// ReportRepository implementation
func (m *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	report.ID = uuid.NewString()
	report.CreatedAt = repositories.Now()
	report.BeforeCreate()
	cp := *report
	m.reports = append(m.reports, &cp)
	return nil
}

func (m *ReportRepository) ListByPost(ctx context.Context, postID string) ([]*models.Report, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	reports := []*models.Report{}
	for _, report := range m.reports {
		if report.PostID == postID {
			cp := *report
			reports = append(reports, &cp)
		}
	}
	return reports, nil
}

// CredentialRepository implementation
func (m *CredentialRepository) Create(ctx context.Context, cred *repositories.Credential) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cred.Email = repositories.NormalizeEmail(cred.Email)
	if _, exists := m.creds[cred.Email]; exists {
		return repositories.ErrAlreadyExists
	}
	cp := *cred
	m.creds[cred.Email] = &cp
	return nil
}

func (m *CredentialRepository) GetByEmail(ctx context.Context, email string) (*repositories.Credential, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	cred, exists := m.creds[repositories.NormalizeEmail(email)]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (m *CredentialRepository) Delete(ctx context.Context, email string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	email = repositories.NormalizeEmail(email)
	if _, exists := m.creds[email]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.creds, email)
	return nil
}
