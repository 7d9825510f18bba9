package live

import (
	"sync"

	"contenthub/app/models"
)

// Loader reads the current thread of a post.
type Loader func() ([]*models.Comment, error)

// Hub keeps the live comment subscriptions for every post.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}

	// postID -> *sync.Mutex serializing load-and-publish per post
	refreshing sync.Map
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscription receives full thread snapshots for one post. Only the most
// recent undelivered snapshot is kept.
type Subscription struct {
	PostID  string
	hub     *Hub
	updates chan []*models.Comment
	once    sync.Once
}

func (h *Hub) lockPost(postID string) func() {
	m, _ := h.refreshing.LoadOrStore(postID, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Subscribe registers a subscription for postID and then queues the result
// of load as its first snapshot. A change committed while load runs is
// either seen by load or published to the new subscription afterwards.
func (h *Hub) Subscribe(postID string, load Loader) (*Subscription, error) {
	s := &Subscription{
		PostID:  postID,
		hub:     h,
		updates: make(chan []*models.Comment, 1),
	}

	h.mu.Lock()
	if h.subs[postID] == nil {
		h.subs[postID] = make(map[*Subscription]struct{})
	}
	h.subs[postID][s] = struct{}{}
	h.mu.Unlock()

	unlock := h.lockPost(postID)
	defer unlock()
	snapshot, err := load()
	if err != nil {
		s.Cancel()
		return nil, err
	}
	h.mu.Lock()
	s.offer(snapshot)
	h.mu.Unlock()
	return s, nil
}

// Refresh reloads postID's thread and publishes it. Refreshes of one post
// run one at a time, so a subscriber never receives an older snapshot after
// a newer one. Posts without subscribers are not reloaded.
func (h *Hub) Refresh(postID string, load Loader) error {
	if h.Count(postID) == 0 {
		return nil
	}
	unlock := h.lockPost(postID)
	defer unlock()
	snapshot, err := load()
	if err != nil {
		return err
	}
	h.Publish(postID, snapshot)
	return nil
}

// Publish delivers snapshot to every subscriber of postID without blocking.
func (h *Hub) Publish(postID string, snapshot []*models.Comment) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[postID] {
		s.offer(snapshot)
	}
}

// Count returns the number of live subscriptions for postID.
func (h *Hub) Count(postID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[postID])
}

// offer must be called with the hub lock held.
func (s *Subscription) offer(snapshot []*models.Comment) {
	if _, ok := s.hub.subs[s.PostID][s]; !ok {
		return
	}
	select {
	case s.updates <- snapshot:
		return
	default:
	}
	// Drop the stale snapshot and replace it.
	select {
	case <-s.updates:
	default:
	}
	s.updates <- snapshot
}

// Updates is closed after Cancel.
func (s *Subscription) Updates() <-chan []*models.Comment {
	return s.updates
}

// Cancel detaches the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		delete(s.hub.subs[s.PostID], s)
		if len(s.hub.subs[s.PostID]) == 0 {
			delete(s.hub.subs, s.PostID)
		}
		close(s.updates)
	})
}
