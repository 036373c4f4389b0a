package model

// ConvertRequest represents the request body for job submission.
// URLs carries the inline list; when the client uploads a file
// instead, the handler reads it into the same field.
type ConvertRequest struct {
	URLs      string `json:"urls" form:"urls"`
	Recipient string `json:"recipient" form:"recipient" validate:"required,email"`
	Strategy  string `json:"strategy" form:"strategy" validate:"required,oneof=email share"`
	Name      string `json:"name" form:"name" validate:"omitempty,max=120"`
	Format    string `json:"format" form:"format" validate:"omitempty,oneof=text json"`
}

// ConvertAcceptedResponse represents the response for an accepted job
type ConvertAcceptedResponse struct {
	JobID     string `json:"jobId"`
	Message   string `json:"message"`
	StatusURL string `json:"statusUrl"`
}
