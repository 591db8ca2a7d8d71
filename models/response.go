package models

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error" example:"name is required"`
}

// CategoryCreatedResponse answers POST /notes/api/add_category.
type CategoryCreatedResponse struct {
	ID      int64  `json:"id" example:"3"`
	Name    string `json:"name" example:"Scope 3 Emissions"`
	Existed bool   `json:"existed,omitempty"`
}

// UploadResponse answers POST /notes/upload_image.
type UploadResponse struct {
	Location string `json:"location" example:"http://localhost:5000/static/images/0f8c...e1.png"`
}
