package types

type SendMessageRequest struct {
	PropertyID string `json:"propertyId" validate:"required,len=26,alphanum"`
	// ReceiverID defaults to the property owner.
	ReceiverID string `json:"receiverId" validate:"omitempty,len=26,alphanum"`
	Content    string `json:"content" validate:"required,min=1,max=2000"`
}

type MessageListQuery struct {
	PropertyID string `query:"propertyId" validate:"omitempty,len=26,alphanum"`
}
