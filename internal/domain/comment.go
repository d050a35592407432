package domain

import "errors"

var (
	ErrCommentNotFound = errors.New("comment not found")
)

// Collection names as they appear in the change feed.
const (
	CollectionComments         = "comments"
	CollectionForbiddenPhrases = "forbidden_phrases"
)

// CommentTextField is the only comment field the censor reads or writes.
const CommentTextField = "text"
