package models

import (
	"errors"
	"strings"
)

// Validate checks a comment before it is written.
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return ValidationErrors{"text": "Please enter a comment"}
	}
	if c.PostID == "" {
		return errors.New("comment must reference a post")
	}
	if c.UserID == "" {
		return errors.New("comment must have an author")
	}
	return nil
}

// OwnedBy reports whether uid authored the comment.
func (c *Comment) OwnedBy(uid string) bool {
	return uid != "" && c.UserID == uid
}

// SnapshotAuthor copies the author's current name and photo into the comment.
func (c *Comment) SnapshotAuthor(who Identity) {
	c.UserID = who.UID
	c.UserName = who.DisplayName
	if c.UserName == "" {
		c.UserName = "Anonymous"
	}
	c.UserPhoto = who.PhotoURL
}
