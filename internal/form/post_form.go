package form

// Post collects the fields of a new or updated blog post.
type Post struct {
	Title   string `form:"title" json:"title" validate:"required,max=100"`
	Content string `form:"content" json:"content" validate:"required"`
}

// Validate runs the field rules.
func (f *Post) Validate() []FieldError {
	return tagErrors(f)
}
