package ballot

// Party is a static, selectable ballot option. The set is immutable for the
// process lifetime.
type Party struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Ballot is the per-session vote record. Submitted is monotonic: once true
// the selection is frozen and the transaction hash is terminal.
type Ballot struct {
	SelectedPartyID string `json:"selectedPartyId,omitempty"`
	Submitted       bool   `json:"submitted"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

var parties = []Party{
	{
		ID:          "party-1",
		Name:        "Progressive Alliance",
		Description: "Focused on social reform, environmental protection, and technological innovation.",
		Color:       "#3b82f6",
	},
	{
		ID:          "party-2",
		Name:        "Unity Coalition",
		Description: "Dedicated to economic growth, national security, and traditional values.",
		Color:       "#f97316",
	},
	{
		ID:          "party-3",
		Name:        "Liberty Party",
		Description: "Advocating for individual freedom, free markets, and limited government.",
		Color:       "#10b981",
	},
	{
		ID:          "party-4",
		Name:        "Citizens Alliance",
		Description: "Committed to community empowerment, social justice, and equal opportunity.",
		Color:       "#8b5cf6",
	},
}

// Parties returns the static party list in ballot order.
func Parties() []Party {
	out := make([]Party, len(parties))
	copy(out, parties)
	return out
}

func knownParty(id string) bool {
	for _, party := range parties {
		if party.ID == id {
			return true
		}
	}
	return false
}
