package app

import (
	"slices"

	"github.com/stelvio-labs/worklens/internal/domain"
)

// ResolveIdentities builds the actor record for one request: every known
// identity gets an actor entry keyed by its identity id (even identities with
// zero linked accounts), and every account without a usable identity mapping
// gets a standalone actor keyed by the raw account id. When a raw account
// carries a URL its identity's linked-account entry lacks, the URL is
// backfilled; present values are never overwritten.
func ResolveIdentities(accounts []domain.Account, identities []domain.Identity, accountToIdentity map[string]string) map[string]domain.Actor {
	actors := make(map[string]domain.Actor, len(identities)+len(accounts))
	known := make(map[string]struct{}, len(identities))
	for _, identity := range identities {
		known[identity.ID] = struct{}{}
		actors[identity.ID] = actorFromIdentity(identity)
	}

	for _, account := range accounts {
		identityID, mapped := accountToIdentity[account.ID]
		if mapped {
			// A mapping to an identity that does not exist is a data
			// inconsistency, treated as "no identity".
			if _, ok := known[identityID]; ok {
				actors[identityID] = backfillAccountURL(actors[identityID], account)
				continue
			}
		}
		if _, exists := actors[account.ID]; exists {
			continue
		}
		name := account.Name
		if name == "" {
			name = account.ID
		}
		actors[account.ID] = domain.Actor{
			ID:       account.ID,
			Name:     name,
			Accounts: []domain.Account{account},
		}
	}
	return actors
}

// ResolveActivityActors rewrites each activity's actor id in place, replacing
// a raw account id with its mapped identity id. Unmapped and absent actor ids
// are left untouched. The rewrite is idempotent: identity ids are not account
// ids, so a second pass finds nothing to replace.
func ResolveActivityActors(activities []domain.Activity, accountToIdentity map[string]string) {
	for i := range activities {
		if activities[i].ActorID == "" {
			continue
		}
		if identityID, ok := accountToIdentity[activities[i].ActorID]; ok {
			activities[i].ActorID = identityID
		}
	}
}

func actorFromIdentity(identity domain.Identity) domain.Actor {
	name := identity.DisplayName
	if name == "" {
		name = identity.Email
	}
	if name == "" {
		name = identity.ID
	}
	return domain.Actor{
		ID:       identity.ID,
		Name:     name,
		Email:    identity.Email,
		Accounts: slices.Clone(identity.Accounts),
	}
}

func backfillAccountURL(actor domain.Actor, account domain.Account) domain.Actor {
	if account.URL == "" {
		return actor
	}
	for i := range actor.Accounts {
		if actor.Accounts[i].ID == account.ID && actor.Accounts[i].URL == "" {
			actor.Accounts[i].URL = account.URL
		}
	}
	return actor
}
