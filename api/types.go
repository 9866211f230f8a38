package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogHandler   blogHandler
	healthHandler healthHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Message string `json:"message,omitempty" example:"There was a problem creating this blog. Please try again."`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// StatusResponse is returned by operations without a body of their own
type StatusResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty" example:"The blog was successfully deleted."`
}
