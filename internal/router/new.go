package router

// Router classifies inline keyboard callback tags.
type Router interface {
	Classify(tag string) RouterOutput
}

// TagRouter is the prefix-based Router.
type TagRouter struct{}

var _ Router = TagRouter{}

// New creates a TagRouter.
func New() TagRouter {
	return TagRouter{}
}
