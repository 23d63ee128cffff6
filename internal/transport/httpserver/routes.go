package httpserver

import (
	"net/http"
	"time"

	"home-inventory-go/internal/config"
	"home-inventory-go/internal/transport/httpserver/handler"
	authmw "home-inventory-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:5173"}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewTokenAuth(cfg.Auth)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Post("/families", handlers.CreateFamily)
			r.Get("/families/me", handlers.GetFamilyMe)
			r.Patch("/families/me", handlers.UpdateFamily)
			r.Get("/families/me/members", handlers.ListFamilyMembers)
			r.Patch("/users/me", handlers.UpdateProfile)

			r.Post("/invites", handlers.CreateInvite)
			r.Get("/invites", handlers.ListInvites)
			r.Post("/invites/redeem", handlers.RedeemInvite)

			r.Get("/items", handlers.ListItems)
			r.Post("/items", handlers.CreateItem)
			r.Get("/items/{item_id}", handlers.GetItem)
			r.Patch("/items/{item_id}", handlers.UpdateItem)
			r.Delete("/items/{item_id}", handlers.DeleteItem)
			r.Post("/items/{item_id}/consume", handlers.ConsumeItem)
			r.Post("/items/{item_id}/give", handlers.GiveItem)
			r.Post("/items/{item_id}/sell", handlers.SellItem)
			r.Get("/items/{item_id}/tags", handlers.ItemRelatedTags)

			r.Get("/item-types", handlers.ListItemTypes)
			r.Post("/item-types", handlers.CreateItemType)
			r.Patch("/item-types/{type_id}", handlers.UpdateItemType)
			r.Delete("/item-types/{type_id}", handlers.DeleteItemType)

			r.Get("/boxes", handlers.ListBoxes)
			r.Post("/boxes", handlers.CreateBox)
			r.Patch("/boxes/{box_id}", handlers.UpdateBox)
			r.Delete("/boxes/{box_id}", handlers.DeleteBox)

			r.Get("/locations", handlers.ListLocations)
			r.Post("/locations", handlers.CreateLocation)
			r.Patch("/locations/{location_id}", handlers.UpdateLocation)
			r.Delete("/locations/{location_id}", handlers.DeleteLocation)

			r.Get("/tags", handlers.ListTags)
			r.Post("/tags", handlers.CreateTag)
			r.Patch("/tags/{tag_id}", handlers.UpdateTag)
			r.Delete("/tags/{tag_id}", handlers.DeleteTag)

			r.Get("/wishlist", handlers.ListWishlistItems)
			r.Post("/wishlist", handlers.CreateWishlistItem)
			r.Get("/wishlist/{wishlist_id}", handlers.GetWishlistItem)
			r.Delete("/wishlist/{wishlist_id}", handlers.DeleteWishlistItem)
			r.Post("/wishlist/{wishlist_id}/purchase", handlers.PurchaseWishlistItem)
			r.Post("/wishlist/{wishlist_id}/cancel", handlers.CancelWishlistItem)
		})
	})

	return r
}
