package domain

// ContentType enumerates the kinds of content a user can store.
type ContentType string

const (
	// ContentTypeImage is a link to an image.
	ContentTypeImage ContentType = "image"
	// ContentTypeVideo is a link to a video.
	ContentTypeVideo ContentType = "video"
	// ContentTypeArticle is a link to an article.
	ContentTypeArticle ContentType = "article"
	// ContentTypeAudio is a link to audio.
	ContentTypeAudio ContentType = "audio"
)

// ContentTypes lists every accepted content type in display order.
var ContentTypes = []ContentType{
	ContentTypeImage,
	ContentTypeVideo,
	ContentTypeArticle,
	ContentTypeAudio,
}

// Valid reports whether t is one of the accepted content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeImage, ContentTypeVideo, ContentTypeArticle, ContentTypeAudio:
		return true
	default:
		return false
	}
}

// ParseContentType converts a string to a ContentType.
func ParseContentType(s string) (ContentType, bool) {
	t := ContentType(s)
	return t, t.Valid()
}

// Content is a stored link owned by a single user.
type Content struct {
	Base
	Link    string      `json:"link"`
	Type    ContentType `json:"type"`
	Title   string      `json:"title"`
	TagIDs  []string    `json:"tag_ids"`
	OwnerID string      `json:"owner_id"`

	// ShareToken is assigned lazily on the first share request and never changes afterwards.
	ShareToken string `json:"share_token,omitempty"`
}

// IsShared returns true once a share token has been assigned.
func (c *Content) IsShared() bool {
	return c.ShareToken != ""
}

// OwnedBy reports whether the content belongs to the given user.
func (c *Content) OwnedBy(userID string) bool {
	return userID != "" && c.OwnerID == userID
}
