package types

type PresignImageRequest struct {
	ContentType string `json:"contentType" validate:"required,oneof=image/jpeg image/png image/webp"`
}

type PresignImageResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

type ConfirmImageRequest struct {
	Key string `json:"key" validate:"required,startswith=properties/,max=160"`
}
