package domain

// CommentRecord is one flattened top-level comment from the video's public
// comment stream. Four fields are extracted from the richer nested API
// payload; everything else is discarded.
type CommentRecord struct {
	// Author is the commenter's display name.
	Author string `bson:"author" json:"author"`

	// Comment is the raw comment body as originally written (unescaped,
	// original script preserved).
	Comment string `bson:"comment" json:"comment"`

	// Likes is the comment's like count. Never negative.
	Likes int64 `bson:"likes" json:"likes"`

	// PublishedAt is the publication timestamp as reported by the source
	// API (RFC 3339).
	PublishedAt string `bson:"published_at" json:"published_at"`
}
