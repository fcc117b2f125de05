package api

// Comment is a comment record from the comments collection.
type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Post is a post record from the posts collection. Only the title is kept
// once the baseline is built.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
}

// Baseline is the joined result of one fetch of both collections.
type Baseline struct {
	Comments   []Comment
	PostTitles map[int]string
}

// NewBaseline builds a baseline, reducing posts to an id -> title lookup.
func NewBaseline(comments []Comment, posts []Post) *Baseline {
	titles := make(map[int]string, len(posts))
	for _, p := range posts {
		titles[p.ID] = p.Title
	}
	return &Baseline{Comments: comments, PostTitles: titles}
}

// PostTitle returns the title of the comment's post, or "" if unknown.
func (b *Baseline) PostTitle(postID int) string {
	if b == nil {
		return ""
	}
	return b.PostTitles[postID]
}
