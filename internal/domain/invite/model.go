package invite

import (
	"time"

	"home-inventory-go/internal/domain/auth"
)

const (
	StatusActive  = "active"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// InviteCode is a single-use token. Its only transitions are
// active -> used (the redemption, exactly once) and the lazy
// active -> expired flip applied on first read past ExpiresAt.
type InviteCode struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	Code      string     `gorm:"size:16;not null;uniqueIndex"`
	FamilyID  string     `gorm:"type:uuid;index;not null"`
	CreatedBy string     `gorm:"not null"`
	Status    string     `gorm:"type:varchar(16);not null"`
	ExpiresAt time.Time  `gorm:"not null"`
	UsedBy    *string
	UsedAt    *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func inviteDoc(c InviteCode) auth.Doc {
	doc := auth.Doc{
		"id":        c.ID,
		"code":      c.Code,
		"familyId":  c.FamilyID,
		"createdBy": c.CreatedBy,
		"status":    c.Status,
		"expiresAt": c.ExpiresAt,
	}
	if c.UsedBy != nil {
		doc["usedBy"] = *c.UsedBy
	}
	if c.UsedAt != nil {
		doc["usedAt"] = *c.UsedAt
	}
	return doc
}
