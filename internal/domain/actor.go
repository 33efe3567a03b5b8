package domain

import "strings"

// Account is one raw upstream account as reported by a feed.
type Account struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Identity is a canonical person record linking one or more upstream
// accounts that belong to the same human.
type Identity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Accounts    []Account `json:"accounts,omitempty"`
}

// NewIdentity validates and canonicalizes an identity record.
func NewIdentity(in Identity) (Identity, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Email = strings.TrimSpace(in.Email)
	if in.ID == "" {
		return Identity{}, ErrInvalidID
	}
	accounts := make([]Account, 0, len(in.Accounts))
	for _, account := range in.Accounts {
		account.ID = strings.TrimSpace(account.ID)
		if account.ID == "" {
			continue
		}
		accounts = append(accounts, account)
	}
	in.Accounts = accounts
	return in, nil
}

// Actor is a resolved, de-duplicated person derived from one or more raw
// accounts. Its ID is an identity id when a mapping exists, otherwise the raw
// account id. Actors are built once per resolution pass and read-only after.
type Actor struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Accounts []Account `json:"accounts,omitempty"`
}
