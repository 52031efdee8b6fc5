package session

// Identity represents the authenticated voter and is also the durable session
// record: the JSON shape below is the persisted wire format, and a decode of
// an encode must reproduce the value exactly, including an absent
// walletAddress when none has been assigned.
type Identity struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Email         string `json:"email"`
	IsVerified    bool   `json:"isVerified"`
	WalletAddress string `json:"walletAddress,omitempty"`
}

// Credentials request structure.
type Credentials struct {
	Email    string
	Password string
}
