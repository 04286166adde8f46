package models

// Customer owns a set of serviceable sites. Site names are unique within
// a customer; order carries no meaning.
type Customer struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Sites []string `json:"sites"`
}

// On-call status of an engineer.
const (
	EngineerAccept         = "accept"
	EngineerOnsite         = "onsite"
	EngineerTravel         = "travel"
	EngineerCompleted      = "completed"
	EngineerRequireRevisit = "require_revisit"
)

// Sync state against the external field-service system.
const (
	SyncSynced  = "synced"
	SyncPending = "pending"
	SyncError   = "error"
)

// Engineer is joined to jobs by name, not by an opaque id. That contract
// comes from the consuming dashboard and is preserved at the API boundary.
type Engineer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
	SyncStatus string `json:"sync_status"`
	Avatar     string `json:"avatar,omitempty"`
}
