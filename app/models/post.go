package models

import (
	"strings"
	"time"
)

// LikedBy reports whether uid is in the post's liker set.
func (p *Post) LikedBy(uid string) bool {
	for _, id := range p.Likes {
		if id == uid {
			return true
		}
	}
	return false
}

// LikeCount returns the size of the liker set.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// OwnedBy reports whether uid created the post.
func (p *Post) OwnedBy(uid string) bool {
	return uid != "" && p.CreatorID == uid
}

// BeforeCreate zero-initializes counters and derives the word count.
func (p *Post) BeforeCreate() {
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Comments = 0
	p.Views = 0
	p.WordCount = WordCount(p.Body)
}

// Apply copies the fields present in u onto the post.
func (p *Post) Apply(u PostUpdate, at time.Time) {
	if u.Title != nil {
		p.Title = strings.TrimSpace(*u.Title)
	}
	if u.Body != nil {
		p.Body = strings.TrimSpace(*u.Body)
		p.WordCount = WordCount(p.Body)
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	p.UpdatedAt = &at
}

// WordCount counts whitespace-delimited tokens.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// AddLiker returns likes with uid added once.
func AddLiker(likes []string, uid string) []string {
	for _, id := range likes {
		if id == uid {
			return likes
		}
	}
	return append(likes, uid)
}

// RemoveLiker returns likes without uid.
func RemoveLiker(likes []string, uid string) []string {
	out := make([]string, 0, len(likes))
	for _, id := range likes {
		if id != uid {
			out = append(out, id)
		}
	}
	return out
}

// PostUpdate carries the fields an owner may change. Nil fields are left
// untouched.
type PostUpdate struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
	Image *string `json:"image,omitempty"`
}

// Validate applies the edit rules: title and body must be present and non
// blank, title at most 200 characters, body at most 5000.
func (u PostUpdate) Validate() error {
	errs := ValidationErrors{}
	if u.Title == nil || strings.TrimSpace(*u.Title) == "" || u.Body == nil || strings.TrimSpace(*u.Body) == "" {
		errs["title"] = "Title and body cannot be empty"
		return errs
	}
	if runeLen(*u.Title) > 200 {
		errs["title"] = "Title must be less than 200 characters"
	}
	if runeLen(*u.Body) > 5000 {
		errs["body"] = "Body must be less than 5000 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
