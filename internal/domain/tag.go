package domain

// Tag is a deduplicated label shared by all users.
// Tags are created lazily on first reference and never deleted.
type Tag struct {
	Base
	Title string `json:"title"`
}
