package auth

import (
	"testing"
	"time"
)

func member(userID, familyID string) Caller {
	return Caller{UserID: userID, FamilyID: familyID, Role: RoleMember}
}

func admin(userID, familyID string) Caller {
	return Caller{UserID: userID, FamilyID: familyID, Role: RoleAdmin}
}

func TestAuthorizeFamilyReadScoped(t *testing.T) {
	doc := Doc{"id": "fam-1", "name": "Home", "createdBy": "user-1"}

	if d := Authorize(member("user-1", "fam-1"), OpRead, CollectionFamilies, doc, nil); !d.Allowed {
		t.Fatalf("expected member read allowed, got deny %q", d.Reason)
	}
	if d := Authorize(member("user-2", "fam-2"), OpRead, CollectionFamilies, doc, nil); d.Allowed {
		t.Fatalf("expected cross-family read denied")
	}
}

func TestAuthorizeFamilyUpdateAdminOnly(t *testing.T) {
	doc := Doc{"id": "fam-1", "name": "Home"}
	after := Doc{"id": "fam-1", "name": "New Home"}

	if d := Authorize(admin("user-1", "fam-1"), OpUpdate, CollectionFamilies, doc, after); !d.Allowed {
		t.Fatalf("expected admin update allowed, got %q", d.Reason)
	}
	if d := Authorize(member("user-2", "fam-1"), OpUpdate, CollectionFamilies, doc, after); d.Allowed || d.Reason != ReasonAdminRequired {
		t.Fatalf("expected admin_required, got %+v", d)
	}
	if d := Authorize(admin("user-3", "fam-2"), OpUpdate, CollectionFamilies, doc, after); d.Allowed || d.Reason != ReasonNotInFamily {
		t.Fatalf("expected not_in_family, got %+v", d)
	}
}

func TestAuthorizeFamilyDeleteForbidden(t *testing.T) {
	doc := Doc{"id": "fam-1"}
	if d := Authorize(admin("user-1", "fam-1"), OpDelete, CollectionFamilies, doc, nil); d.Allowed {
		t.Fatalf("expected family delete denied even for admin")
	}
}

func TestAuthorizeUserCreateSelfOnly(t *testing.T) {
	after := Doc{"id": "user-1", "email": "a@b.c", "displayName": "A", "role": "admin", "familyId": "fam-1"}

	if d := Authorize(admin("user-1", "fam-1"), OpCreate, CollectionUsers, nil, after); !d.Allowed {
		t.Fatalf("expected self create allowed, got %q", d.Reason)
	}
	if d := Authorize(admin("user-2", "fam-1"), OpCreate, CollectionUsers, nil, after); d.Allowed || d.Reason != ReasonNotSelf {
		t.Fatalf("expected not_self, got %+v", d)
	}
}

func TestAuthorizeUserCreateValidation(t *testing.T) {
	missing := Doc{"id": "user-1", "email": "", "displayName": "A", "role": "member", "familyId": "fam-1"}
	if d := Authorize(member("user-1", "fam-1"), OpCreate, CollectionUsers, nil, missing); d.Allowed || d.Reason != ReasonMissingFields {
		t.Fatalf("expected missing_fields, got %+v", d)
	}

	badRole := Doc{"id": "user-1", "email": "a@b.c", "displayName": "A", "role": "owner", "familyId": "fam-1"}
	if d := Authorize(member("user-1", "fam-1"), OpCreate, CollectionUsers, nil, badRole); d.Allowed || d.Reason != ReasonInvalidRole {
		t.Fatalf("expected invalid_role, got %+v", d)
	}
}

func TestAuthorizeUserUpdateImmutableFields(t *testing.T) {
	before := Doc{"id": "user-1", "email": "a@b.c", "displayName": "A", "role": "member", "familyId": "fam-1"}

	roleBump := Doc{"id": "user-1", "email": "a@b.c", "displayName": "A", "role": "admin", "familyId": "fam-1"}
	if d := Authorize(member("user-1", "fam-1"), OpUpdate, CollectionUsers, before, roleBump); d.Allowed || d.Reason != ReasonImmutableField {
		t.Fatalf("expected role change denied, got %+v", d)
	}

	familyHop := Doc{"id": "user-1", "email": "a@b.c", "displayName": "A", "role": "member", "familyId": "fam-2"}
	if d := Authorize(member("user-1", "fam-1"), OpUpdate, CollectionUsers, before, familyHop); d.Allowed || d.Reason != ReasonImmutableField {
		t.Fatalf("expected family change denied, got %+v", d)
	}

	rename := Doc{"id": "user-1", "email": "a@b.c", "displayName": "B", "role": "member", "familyId": "fam-1"}
	if d := Authorize(member("user-1", "fam-1"), OpUpdate, CollectionUsers, before, rename); !d.Allowed {
		t.Fatalf("expected display name change allowed, got %q", d.Reason)
	}
	if d := Authorize(member("user-2", "fam-1"), OpUpdate, CollectionUsers, before, rename); d.Allowed || d.Reason != ReasonNotSelf {
		t.Fatalf("expected not_self for other user, got %+v", d)
	}
}

func TestAuthorizeInviteReadActiveCrossTenant(t *testing.T) {
	active := Doc{"id": "inv-1", "familyId": "fam-1", "status": "active"}
	used := Doc{"id": "inv-1", "familyId": "fam-1", "status": "used"}

	// An outsider may read an active invite; that is the redemption path.
	if d := Authorize(member("stranger", ""), OpRead, CollectionInviteCodes, active, nil); !d.Allowed {
		t.Fatalf("expected active invite readable, got %q", d.Reason)
	}
	if d := Authorize(member("stranger", ""), OpRead, CollectionInviteCodes, used, nil); d.Allowed {
		t.Fatalf("expected used invite hidden from outsiders")
	}
	if d := Authorize(admin("user-1", "fam-1"), OpRead, CollectionInviteCodes, used, nil); !d.Allowed {
		t.Fatalf("expected family admin may read used invite, got %q", d.Reason)
	}
	if d := Authorize(member("user-2", "fam-1"), OpRead, CollectionInviteCodes, used, nil); d.Allowed {
		t.Fatalf("expected non-admin member denied on used invite")
	}
}

func TestAuthorizeInviteCreateAdminOwnFamily(t *testing.T) {
	after := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "user-1", "status": "active", "expiresAt": time.Now()}

	if d := Authorize(admin("user-1", "fam-1"), OpCreate, CollectionInviteCodes, nil, after); !d.Allowed {
		t.Fatalf("expected admin create allowed, got %q", d.Reason)
	}
	if d := Authorize(member("user-1", "fam-1"), OpCreate, CollectionInviteCodes, nil, after); d.Allowed || d.Reason != ReasonAdminRequired {
		t.Fatalf("expected admin_required, got %+v", d)
	}
	if d := Authorize(admin("user-1", "fam-2"), OpCreate, CollectionInviteCodes, nil, after); d.Allowed || d.Reason != ReasonNotInFamily {
		t.Fatalf("expected not_in_family, got %+v", d)
	}
}

func TestAuthorizeInviteRedemptionShape(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	usedAt := time.Now()
	before := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "admin-1", "status": "active", "expiresAt": expires}

	flip := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "admin-1", "status": "used", "usedBy": "joiner", "usedAt": usedAt}
	if d := Authorize(member("joiner", ""), OpUpdate, CollectionInviteCodes, before, flip); !d.Allowed {
		t.Fatalf("expected redemption flip allowed, got %q", d.Reason)
	}

	wrongUser := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "admin-1", "status": "used", "usedBy": "someone-else", "usedAt": usedAt}
	if d := Authorize(member("joiner", ""), OpUpdate, CollectionInviteCodes, before, wrongUser); d.Allowed || d.Reason != ReasonInviteUpdateShape {
		t.Fatalf("expected invite_update_shape, got %+v", d)
	}

	extraChange := Doc{"id": "inv-1", "code": "HACKED", "familyId": "fam-1", "createdBy": "admin-1", "status": "used", "usedBy": "joiner", "usedAt": usedAt}
	if d := Authorize(member("joiner", ""), OpUpdate, CollectionInviteCodes, before, extraChange); d.Allowed || d.Reason != ReasonImmutableField {
		t.Fatalf("expected immutable_field for code rewrite, got %+v", d)
	}

	wrongTarget := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "admin-1", "status": "expired", "usedBy": "joiner", "usedAt": usedAt}
	if d := Authorize(member("joiner", ""), OpUpdate, CollectionInviteCodes, before, wrongTarget); d.Allowed || d.Reason != ReasonInviteUpdateShape {
		t.Fatalf("expected invite_update_shape for non-used target, got %+v", d)
	}

	notActive := Doc{"id": "inv-1", "code": "ABC234", "familyId": "fam-1", "createdBy": "admin-1", "status": "used", "usedBy": "earlier"}
	if d := Authorize(member("joiner", ""), OpUpdate, CollectionInviteCodes, notActive, flip); d.Allowed || d.Reason != ReasonInviteNotActive {
		t.Fatalf("expected invite_not_active, got %+v", d)
	}
}

func TestAuthorizeInviteDeleteForbidden(t *testing.T) {
	doc := Doc{"id": "inv-1", "familyId": "fam-1", "status": "active"}
	if d := Authorize(admin("user-1", "fam-1"), OpDelete, CollectionInviteCodes, doc, nil); d.Allowed {
		t.Fatalf("expected invite delete denied")
	}
}

func TestAuthorizeFamilyScopedCollections(t *testing.T) {
	collections := []Collection{CollectionItems, CollectionItemTypes, CollectionBoxes, CollectionLocations, CollectionWishlistItems}
	for _, collection := range collections {
		doc := Doc{"id": "doc-1", "familyId": "fam-1"}
		if d := Authorize(member("user-1", "fam-1"), OpRead, collection, doc, nil); !d.Allowed {
			t.Fatalf("%s: expected member read allowed, got %q", collection, d.Reason)
		}
		if d := Authorize(member("user-2", "fam-2"), OpRead, collection, doc, nil); d.Allowed {
			t.Fatalf("%s: expected cross-family read denied", collection)
		}
		if d := Authorize(member("user-1", "fam-1"), OpDelete, collection, doc, nil); d.Allowed || d.Reason != ReasonAdminRequired {
			t.Fatalf("%s: expected member delete denied, got %+v", collection, d)
		}
		if d := Authorize(admin("user-1", "fam-1"), OpDelete, collection, doc, nil); !d.Allowed {
			t.Fatalf("%s: expected admin delete allowed, got %q", collection, d.Reason)
		}
	}
}

func TestAuthorizeTagDeleteAnyMember(t *testing.T) {
	doc := Doc{"id": "tag-1", "familyId": "fam-1", "name": "fragile"}
	if d := Authorize(member("user-1", "fam-1"), OpDelete, CollectionTags, doc, nil); !d.Allowed {
		t.Fatalf("expected member tag delete allowed, got %q", d.Reason)
	}
	if d := Authorize(member("user-1", "fam-2"), OpDelete, CollectionTags, doc, nil); d.Allowed {
		t.Fatalf("expected cross-family tag delete denied")
	}
}

func TestAuthorizeItemCreateRequiredFields(t *testing.T) {
	after := Doc{"id": "item-1", "familyId": "fam-1", "itemTypeId": "", "ownerId": "user-1", "status": "owned"}
	if d := Authorize(member("user-1", "fam-1"), OpCreate, CollectionItems, nil, after); d.Allowed || d.Reason != ReasonMissingFields {
		t.Fatalf("expected missing_fields for empty itemTypeId, got %+v", d)
	}

	after["itemTypeId"] = "type-1"
	if d := Authorize(member("user-1", "fam-1"), OpCreate, CollectionItems, nil, after); !d.Allowed {
		t.Fatalf("expected item create allowed, got %q", d.Reason)
	}
}

func TestAuthorizeUnknownCollection(t *testing.T) {
	if d := Authorize(member("user-1", "fam-1"), OpRead, Collection("gadgets"), Doc{}, nil); d.Allowed || d.Reason != ReasonUnknownCollection {
		t.Fatalf("expected unknown_collection, got %+v", d)
	}
}
