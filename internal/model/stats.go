package model

// ProfileStats is the role-dependent summary shown on a user's profile. Only
// the section matching the requester's role is populated.
type ProfileStats struct {
	Role   Role         `json:"role"`
	Renter *RenterStats `json:"renter,omitempty"`
	Owner  *OwnerStats  `json:"owner,omitempty"`
	Admin  *AdminStats  `json:"admin,omitempty"`
}

type RenterStats struct {
	Favorites      int `json:"favorites"`
	MessagesSent   int `json:"messagesSent"`
	UnreadMessages int `json:"unreadMessages"`
}

type OwnerStats struct {
	Listings          int `json:"listings"`
	Approved          int `json:"approved"`
	Pending           int `json:"pending"`
	Available         int `json:"available"`
	FavoritesReceived int `json:"favoritesReceived"`
	MessagesReceived  int `json:"messagesReceived"`
	UnreadMessages    int `json:"unreadMessages"`
}

type AdminStats struct {
	UsersByRole      map[Role]int `json:"usersByRole"`
	Properties       int          `json:"properties"`
	PendingApprovals int          `json:"pendingApprovals"`
	Messages         int          `json:"messages"`
}
