package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type createSweetRequest struct {
	Name     string  `json:"name"      validate:"notblank"`
	Category string  `json:"category"  validate:"notblank"`
	Price    float64 `json:"price"     validate:"gt=0"`
	Quantity int     `json:"quantity"  validate:"gte=0"`
	ImageURL string  `json:"image_url" validate:"omitempty,url"`
}

// updateSweetRequest is a partial update: absent fields stay untouched.
type updateSweetRequest struct {
	Name     *string  `json:"name"      validate:"omitnil,notblank"`
	Category *string  `json:"category"  validate:"omitnil,notblank"`
	Price    *float64 `json:"price"     validate:"omitnil,gt=0"`
	Quantity *int     `json:"quantity"  validate:"omitnil,gte=0"`
	ImageURL *string  `json:"image_url"`
}

type sweetResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type stockEventResponse struct {
	SweetID  string `json:"sweet_id"`
	Kind     string `json:"kind"`
	Delta    int    `json:"delta"`
	Quantity int    `json:"quantity"`
	Actor    string `json:"actor"`
	At       string `json:"at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
