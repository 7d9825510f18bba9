package models

import "time"

// User is the profile record created once at signup.
type User struct {
	ID          string    `json:"id" bson:"_id"`
	DisplayName string    `json:"displayName" bson:"username" validate:"required,min=2,max=50"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	FirstName   string    `json:"firstName" bson:"firstName" validate:"max=50"`
	LastName    string    `json:"lastName" bson:"lastName" validate:"max=50"`
	PhotoURL    string    `json:"photoUrl,omitempty" bson:"profilePic,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Post is a published piece of content.
type Post struct {
	ID        string     `json:"id" bson:"_id"`
	Title     string     `json:"title" bson:"title"`
	Body      string     `json:"body" bson:"body"`
	CreatorID string     `json:"creatorId" bson:"creatorId"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
	Tags      []string   `json:"tags" bson:"tags"`
	Category  string     `json:"category" bson:"category"`
	Image     string     `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []string   `json:"likes" bson:"likes"`
	Comments  int        `json:"comments" bson:"comments"`
	Views     int        `json:"views" bson:"views"`
	WordCount int        `json:"wordCount" bson:"wordCount"`
}

// Comment is a single entry in a post's comment thread. UserName and
// UserPhoto are copied from the author at creation time.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	PostID    string    `json:"postId" bson:"postId"`
	UserID    string    `json:"userId" bson:"userId"`
	Text      string    `json:"text" bson:"text"`
	UserName  string    `json:"userName" bson:"userName"`
	UserPhoto string    `json:"userPhoto,omitempty" bson:"userPhoto,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Report flags a post for out-of-band review.
type Report struct {
	ID         string    `json:"id" bson:"_id"`
	PostID     string    `json:"postId" bson:"postId"`
	ReporterID string    `json:"reporterId" bson:"reporterId"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	Status     string    `json:"status" bson:"status"`
}

// ReportPending is the status every new report starts with.
const ReportPending = "pending"

// Identity is the authenticated caller.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}
