package inventory

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"home-inventory-go/internal/domain/auth"
)

// Item statuses. Owned is the only state transitions leave from; the
// other three are terminal.
const (
	StatusOwned    = "owned"
	StatusConsumed = "consumed"
	StatusGiven    = "given"
	StatusSold     = "sold"
)

// StringList stores a list of tag ids as a JSON text column, keeping
// gorm as the only driver surface.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported string list type %T", value)
	}

	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

type Item struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	FamilyID    string     `gorm:"type:uuid;index;not null"`
	ItemTypeID  *string    `gorm:"type:uuid;index"`
	OwnerID     string     `gorm:"not null"`
	BoxID       *string    `gorm:"type:uuid;index"`
	Tags        StringList `gorm:"type:text"`
	Memo        *string
	Status      string     `gorm:"type:varchar(16);not null;index"`
	PurchasedAt *time.Time
	ConsumedAt  *time.Time
	GivenTo     *string
	GivenAt     *time.Time
	SoldTo      *string
	SoldPrice   *float64
	SoldAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type ItemType struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	FamilyID  string     `gorm:"type:uuid;index;not null"`
	Name      string     `gorm:"not null"`
	Tags      StringList `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type Box struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	FamilyID   string     `gorm:"type:uuid;index;not null"`
	Name       string     `gorm:"not null"`
	LocationID *string    `gorm:"type:uuid;index"`
	Tags       StringList `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

type Location struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	FamilyID  string     `gorm:"type:uuid;index;not null"`
	Name      string     `gorm:"not null"`
	Tags      StringList `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type Tag struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	FamilyID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TagSource names the level of the containment hierarchy a related tag
// was declared on.
type TagSource string

const (
	TagSourceItem     TagSource = "item"
	TagSourceItemType TagSource = "itemType"
	TagSourceBox      TagSource = "box"
	TagSourceLocation TagSource = "location"
)

type RelatedTag struct {
	ID     string
	Name   string
	Source TagSource
}

type CreateItemInput struct {
	ItemTypeID  string
	OwnerID     string
	BoxID       *string
	Tags        []string
	Memo        *string
	PurchasedAt *time.Time
}

type UpdateItemInput struct {
	BoxID *string
	Tags  *[]string
	Memo  *string
}

type ItemFilter struct {
	Status     string
	ItemTypeID string
	BoxID      string
}

type ReferenceInput struct {
	Name string
	Tags []string
}

type BoxInput struct {
	Name       string
	LocationID *string
	Tags       []string
}

func itemDoc(i Item) auth.Doc {
	typeID := ""
	if i.ItemTypeID != nil {
		typeID = *i.ItemTypeID
	}
	return auth.Doc{
		"id":         i.ID,
		"familyId":   i.FamilyID,
		"itemTypeId": typeID,
		"ownerId":    i.OwnerID,
		"status":     i.Status,
	}
}

func referenceDoc(id, familyID, name string) auth.Doc {
	return auth.Doc{
		"id":       id,
		"familyId": familyID,
		"name":     name,
	}
}
