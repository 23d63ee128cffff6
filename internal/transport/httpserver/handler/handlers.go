package handler

import (
	authdomain "home-inventory-go/internal/domain/auth"
	familydomain "home-inventory-go/internal/domain/family"
	invitedomain "home-inventory-go/internal/domain/invite"
	inventorydomain "home-inventory-go/internal/domain/inventory"
	wishlistdomain "home-inventory-go/internal/domain/wishlist"
	"home-inventory-go/pkg/logger"
)

type Handlers struct {
	Auth      *authdomain.Resolver
	Families  *familydomain.Service
	Invites   *invitedomain.Service
	Inventory *inventorydomain.Service
	Wishlist  *wishlistdomain.Service
	log       logger.Logger
}

func New(auth *authdomain.Resolver, families *familydomain.Service, invites *invitedomain.Service, inventory *inventorydomain.Service, wishlist *wishlistdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:      auth,
		Families:  families,
		Invites:   invites,
		Inventory: inventory,
		Wishlist:  wishlist,
		log:       log,
	}
}
