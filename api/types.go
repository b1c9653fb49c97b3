package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler authHandler
	feedHandler feedHandler
	postHandler postHandler
	tagHandler  tagHandler
	aiHandler   aiHandler
}
