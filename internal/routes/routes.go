package routes

import (
	"github.com/gin-gonic/gin"

	"game_market_back_end/internal/handlers/admin"
	"game_market_back_end/internal/handlers/cart"
	"game_market_back_end/internal/handlers/order"
	"game_market_back_end/internal/handlers/product"
	"game_market_back_end/internal/handlers/user"
	"game_market_back_end/internal/middleware"
	"game_market_back_end/internal/models"
)

// Deps regroupe tout ce que le routage doit brancher. Construit dans main,
// aucun état global.
type Deps struct {
	Auth    gin.HandlerFunc
	Limiter *middleware.RateLimiter

	Users    *user.Handler
	Products *product.Handler
	Carts    *cart.Handler
	Orders   *order.Handler
	Admin    *admin.Handler
}

// Register pose toutes les routes. Le contrôle d'accès se décide ici et
// uniquement ici : public, authentifié, ou admin.
func Register(r *gin.Engine, d Deps) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Comptes
	r.POST("/user/signup", d.Limiter.SignupRateLimit(), d.Users.Signup)
	r.POST("/user/login", d.Limiter.LoginRateLimit(), d.Users.Login)
	r.GET("/user/confirm-email/:token", d.Users.ConfirmEmail)
	r.POST("/user/send-confirmation", d.Users.SendConfirmation)
	r.POST("/user/reset-password", d.Limiter.ResetPasswordRateLimit(), d.Users.RequestResetPassword)
	r.GET("/user/reset-password/:token", d.Users.CheckResetToken)
	r.POST("/user/edit-password", d.Users.EditPassword)
	r.GET("/user/me", d.Auth, d.Users.Me)

	// Gestion des comptes (back-office)
	r.GET("/user", d.Auth, adminOnly, d.Users.ListUsers)
	r.GET("/user/:id", d.Auth, adminOnly, d.Users.GetUser)
	r.PUT("/user/:id", d.Auth, adminOnly, d.Users.UpdateUser)
	r.DELETE("/user/:id", d.Auth, adminOnly, d.Users.DeleteUser)

	// Catalogue (public)
	r.GET("/product", d.Products.List)
	r.GET("/product/search", d.Products.Search)
	r.GET("/product/sku/:sku", d.Products.GetBySKU)
	r.GET("/platform", d.Products.ListPlatforms)

	// Catalogue (back-office)
	r.POST("/product", d.Auth, adminOnly, d.Products.Create)
	r.PUT("/product/:id", d.Auth, adminOnly, d.Products.Update)
	r.DELETE("/product/:id", d.Auth, adminOnly, d.Products.Delete)
	r.POST("/product/:id/variant", d.Auth, adminOnly, d.Products.AddVariant)
	r.PUT("/product/:id/variant/:variantId", d.Auth, adminOnly, d.Products.UpdateVariant)
	r.DELETE("/product/:id/variant/:variantId", d.Auth, adminOnly, d.Products.RemoveVariant)
	r.POST("/product/variant/:sku/images", d.Auth, adminOnly, d.Products.UploadVariantImage)

	// Panier (authentifié)
	carts := r.Group("/cart", d.Auth)
	carts.GET("", d.Carts.Get)
	carts.POST("/add", d.Carts.Add)
	carts.POST("/sync", d.Carts.Sync)
	carts.PATCH("/increase/:sku", d.Carts.Increase)
	carts.PATCH("/decrease/:sku", d.Carts.Decrease)
	carts.DELETE("/remove/:sku", d.Carts.Remove)

	// Commandes
	r.POST("/order/create", d.Auth, d.Orders.Checkout)
	r.GET("/order/mine", d.Auth, d.Orders.ListMine)
	r.POST("/order/send/invoice", d.Auth, d.Orders.SendInvoice)
	r.GET("/order/:id", d.Auth, d.Orders.Get)
	r.GET("/order/:id/invoice.pdf", d.Auth, d.Orders.InvoicePDF)

	// Commandes (back-office)
	r.GET("/order", d.Auth, adminOnly, d.Orders.ListAll)
	r.PUT("/order/:id", d.Auth, adminOnly, d.Orders.Update)
	r.DELETE("/order/:id", d.Auth, adminOnly, d.Orders.Delete)
	r.PUT("/order/:id/item/:sku", d.Auth, adminOnly, d.Orders.UpdateLineItem)
	r.DELETE("/order/:id/item/:sku", d.Auth, adminOnly, d.Orders.DeleteLineItem)

	// Tableau de bord
	r.GET("/admin/stats", d.Auth, adminOnly, d.Admin.Stats)
}
