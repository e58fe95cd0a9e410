package shared

// OwnerMetadata is the authenticated dashboard account attached to a request.
type OwnerMetadata struct {
	OwnerID string `json:"owner_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Plan    string `json:"plan,omitempty"`
	APIKey  string `json:"-"`
}
