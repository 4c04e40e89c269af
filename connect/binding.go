package connect

// Binding links an external identity (provider + uid) to a local user. A
// local user may accumulate multiple historical uids for the same provider;
// unlinking removes all of them.
type Binding struct {
	Provider ProviderID        `json:"provider"`
	UID      string            `json:"uid"`
	UserID   string            `json:"user_id"`
	Attrs    map[string]string `json:"attrs,omitempty"`
}

// From storage.Model.
func (b Binding) PK() string {
	return string(b.Provider) + "/" + b.UID
}

// Linked reports whether the binding resolves to a local user.
func (b Binding) Linked() bool {
	return b.UserID != ""
}
