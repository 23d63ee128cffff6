package auth

import (
	"reflect"
	"sort"
)

// The policy evaluator is a pure decision function over field maps.
// It never touches storage; services build the before/after documents
// from their models and act only on an allowed decision.

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type Collection string

const (
	CollectionFamilies      Collection = "families"
	CollectionUsers         Collection = "users"
	CollectionInviteCodes   Collection = "inviteCodes"
	CollectionItems         Collection = "items"
	CollectionItemTypes     Collection = "itemTypes"
	CollectionBoxes         Collection = "boxes"
	CollectionLocations     Collection = "locations"
	CollectionTags          Collection = "tags"
	CollectionWishlistItems Collection = "wishlistItems"
)

// Doc is a flat field view of a document, keyed the way the documents
// themselves are: "familyId", "createdBy", "status" and so on.
type Doc map[string]any

type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonNotInFamily       = "not_in_family"
	ReasonAdminRequired     = "admin_required"
	ReasonNotSelf           = "not_self"
	ReasonImmutableField    = "immutable_field"
	ReasonMissingFields     = "missing_fields"
	ReasonInvalidRole       = "invalid_role"
	ReasonDeleteForbidden   = "delete_forbidden"
	ReasonInviteNotActive   = "invite_not_active"
	ReasonInviteUpdateShape = "invite_update_shape"
	ReasonUnknownCollection = "unknown_collection"
)

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

type rule func(caller Caller, before, after Doc) Decision

type collectionRules struct {
	read   rule
	create rule
	update rule
	delete rule
}

// Required create fields per collection. A missing or empty field is a
// validation deny.
var requiredFields = map[Collection][]string{
	CollectionFamilies:      {"name", "createdBy"},
	CollectionUsers:         {"id", "email", "displayName", "role", "familyId"},
	CollectionInviteCodes:   {"code", "familyId", "createdBy", "status", "expiresAt"},
	CollectionItems:         {"familyId", "itemTypeId", "ownerId", "status"},
	CollectionItemTypes:     {"familyId", "name"},
	CollectionBoxes:         {"familyId", "name"},
	CollectionLocations:     {"familyId", "name"},
	CollectionTags:          {"familyId", "name"},
	CollectionWishlistItems: {"familyId", "name", "requesterId", "priority", "status"},
}

var policy = map[Collection]collectionRules{
	CollectionFamilies: {
		read: func(caller Caller, before, _ Doc) Decision {
			if !caller.InFamily(docString(before, "id")) {
				return Deny(ReasonNotInFamily)
			}
			return Allow()
		},
		create: func(caller Caller, _, after Doc) Decision {
			if docString(after, "createdBy") != caller.UserID {
				return Deny(ReasonNotSelf)
			}
			return requireFields(CollectionFamilies, after)
		},
		update: func(caller Caller, before, _ Doc) Decision {
			if !caller.InFamily(docString(before, "id")) {
				return Deny(ReasonNotInFamily)
			}
			if !caller.IsAdmin() {
				return Deny(ReasonAdminRequired)
			}
			return Allow()
		},
		delete: denyAlways,
	},
	CollectionUsers: {
		read: func(caller Caller, before, _ Doc) Decision {
			if caller.UserID == docString(before, "id") {
				return Allow()
			}
			if caller.InFamily(docString(before, "familyId")) {
				return Allow()
			}
			return Deny(ReasonNotInFamily)
		},
		create: func(caller Caller, _, after Doc) Decision {
			if docString(after, "id") != caller.UserID {
				return Deny(ReasonNotSelf)
			}
			if decision := requireFields(CollectionUsers, after); !decision.Allowed {
				return decision
			}
			if !Role(docString(after, "role")).Valid() {
				return Deny(ReasonInvalidRole)
			}
			return Allow()
		},
		update: func(caller Caller, before, after Doc) Decision {
			if caller.UserID != docString(before, "id") {
				return Deny(ReasonNotSelf)
			}
			if docString(after, "role") != docString(before, "role") {
				return Deny(ReasonImmutableField)
			}
			if docString(after, "familyId") != docString(before, "familyId") {
				return Deny(ReasonImmutableField)
			}
			return Allow()
		},
		delete: denyAlways,
	},
	CollectionInviteCodes: {
		// Any caller may read an active invite; this is the one
		// cross-tenant exception, needed for redemption.
		read: func(caller Caller, before, _ Doc) Decision {
			if docString(before, "status") == "active" {
				return Allow()
			}
			if caller.IsAdmin() && caller.InFamily(docString(before, "familyId")) {
				return Allow()
			}
			return Deny(ReasonInviteNotActive)
		},
		create: func(caller Caller, _, after Doc) Decision {
			if !caller.IsAdmin() {
				return Deny(ReasonAdminRequired)
			}
			if !caller.InFamily(docString(after, "familyId")) {
				return Deny(ReasonNotInFamily)
			}
			return requireFields(CollectionInviteCodes, after)
		},
		// The only legal update is the redemption flip: active -> used
		// with usedBy set to the caller, nothing else touched.
		update: func(caller Caller, before, after Doc) Decision {
			if docString(before, "status") != "active" {
				return Deny(ReasonInviteNotActive)
			}
			if docString(after, "status") != "used" {
				return Deny(ReasonInviteUpdateShape)
			}
			if docString(after, "usedBy") != caller.UserID {
				return Deny(ReasonInviteUpdateShape)
			}
			if !equalExcept(before, after, "status", "usedBy", "usedAt") {
				return Deny(ReasonImmutableField)
			}
			return Allow()
		},
		delete: denyAlways,
	},
	CollectionItems:         familyScoped(CollectionItems, false),
	CollectionItemTypes:     familyScoped(CollectionItemTypes, false),
	CollectionBoxes:         familyScoped(CollectionBoxes, false),
	CollectionLocations:     familyScoped(CollectionLocations, false),
	CollectionTags:          familyScoped(CollectionTags, true),
	CollectionWishlistItems: familyScoped(CollectionWishlistItems, false),
}

// Authorize evaluates the policy table for one operation. For reads
// and deletes the target is before; for creates it is after; updates
// get both.
func Authorize(caller Caller, op Operation, collection Collection, before, after Doc) Decision {
	rules, ok := policy[collection]
	if !ok {
		return Deny(ReasonUnknownCollection)
	}

	switch op {
	case OpRead:
		return rules.read(caller, before, after)
	case OpCreate:
		return rules.create(caller, before, after)
	case OpUpdate:
		return rules.update(caller, before, after)
	case OpDelete:
		return rules.delete(caller, before, after)
	default:
		return Deny(ReasonUnknownCollection)
	}
}

// familyScoped is the shared rule set for family-bound collections:
// members read, create and update inside their own family; deletes are
// admin-gated unless anyMemberDelete is set.
func familyScoped(collection Collection, anyMemberDelete bool) collectionRules {
	return collectionRules{
		read: func(caller Caller, before, _ Doc) Decision {
			if !caller.InFamily(docString(before, "familyId")) {
				return Deny(ReasonNotInFamily)
			}
			return Allow()
		},
		create: func(caller Caller, _, after Doc) Decision {
			if !caller.InFamily(docString(after, "familyId")) {
				return Deny(ReasonNotInFamily)
			}
			return requireFields(collection, after)
		},
		update: func(caller Caller, before, _ Doc) Decision {
			if !caller.InFamily(docString(before, "familyId")) {
				return Deny(ReasonNotInFamily)
			}
			return Allow()
		},
		delete: func(caller Caller, before, _ Doc) Decision {
			if !caller.InFamily(docString(before, "familyId")) {
				return Deny(ReasonNotInFamily)
			}
			if !anyMemberDelete && !caller.IsAdmin() {
				return Deny(ReasonAdminRequired)
			}
			return Allow()
		},
	}
}

func denyAlways(Caller, Doc, Doc) Decision {
	return Deny(ReasonDeleteForbidden)
}

func requireFields(collection Collection, doc Doc) Decision {
	for _, field := range requiredFields[collection] {
		value, ok := doc[field]
		if !ok || value == nil {
			return Deny(ReasonMissingFields)
		}
		if s, isString := value.(string); isString && s == "" {
			return Deny(ReasonMissingFields)
		}
	}
	return Allow()
}

func docString(doc Doc, key string) string {
	if doc == nil {
		return ""
	}
	value, ok := doc[key]
	if !ok || value == nil {
		return ""
	}
	s, _ := value.(string)
	return s
}

// equalExcept reports whether before and after agree on every field
// outside the excepted set.
func equalExcept(before, after Doc, except ...string) bool {
	skip := make(map[string]struct{}, len(except))
	for _, key := range except {
		skip[key] = struct{}{}
	}

	keys := make([]string, 0, len(before)+len(after))
	seen := make(map[string]struct{}, len(before)+len(after))
	for key := range before {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for key := range after {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := skip[key]; ok {
			continue
		}
		if !reflect.DeepEqual(before[key], after[key]) {
			return false
		}
	}
	return true
}
