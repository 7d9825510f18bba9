package models

import "strings"

// FeedFilter selects the public feed ordering.
type FeedFilter string

const (
	FilterRecent  FeedFilter = "recent"
	FilterPopular FeedFilter = "popular"
	FilterOldest  FeedFilter = "oldest"
)

// ParseFeedFilter falls back to FilterRecent for unknown values.
func ParseFeedFilter(s string) FeedFilter {
	switch f := FeedFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterPopular, FilterOldest:
		return f
	}
	return FilterRecent
}

// SortOption selects how an owner's own posts are re-sorted locally.
type SortOption string

const (
	SortRecent   SortOption = "recent"
	SortOldest   SortOption = "oldest"
	SortLikes    SortOption = "likes"
	SortComments SortOption = "comments"
)

// ParseSortOption falls back to SortRecent for unknown values.
func ParseSortOption(s string) SortOption {
	switch o := SortOption(strings.ToLower(strings.TrimSpace(s))); o {
	case SortOldest, SortLikes, SortComments:
		return o
	}
	return SortRecent
}
