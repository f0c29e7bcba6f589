package dto

type MediaURLRequest struct {
	Key string `json:"key" validate:"required,max=256"`
}

func (r MediaURLRequest) Validate() error {
	return GetValidator().Struct(r)
}

type MediaURLResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}
