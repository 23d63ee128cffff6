package family

import (
	"time"

	"home-inventory-go/internal/domain/auth"
)

type Family struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	CreatedBy string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// User is keyed by the identity provider subject and created exactly
// once, either as the founding admin of a new family or as a member
// through invite redemption. Role and FamilyID never change afterwards.
type User struct {
	ID          string    `gorm:"primaryKey"`
	Email       string    `gorm:"not null"`
	DisplayName string    `gorm:"not null"`
	Role        auth.Role `gorm:"type:varchar(16);not null"`
	FamilyID    string    `gorm:"type:uuid;index;not null"`
	DiscordID   *string   `gorm:"uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// Identity carries what the auth layer knows about a caller before a
// User record exists.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

type UpdateProfileInput struct {
	DisplayName *string
	DiscordID   *string
}

func familyDoc(f Family) auth.Doc {
	return auth.Doc{
		"id":        f.ID,
		"name":      f.Name,
		"createdBy": f.CreatedBy,
	}
}

func userDoc(u User) auth.Doc {
	return auth.Doc{
		"id":          u.ID,
		"email":       u.Email,
		"displayName": u.DisplayName,
		"role":        string(u.Role),
		"familyId":    u.FamilyID,
	}
}
