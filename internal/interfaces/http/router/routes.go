package router

import (
	"github.com/epicoop/backend/internal/interfaces/http/handler"
	"github.com/epicoop/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	System    *handler.SystemHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Role      *handler.RoleHandler
	Category  *handler.CategoryHandler
	Product   *handler.ProductHandler
	Supplier  *handler.SupplierHandler
	Catalogue *handler.CatalogueHandler
	Basket    *handler.BasketHandler
	Order     *handler.OrderHandler
	Caisse    *handler.CaisseHandler
}

// Setup mounts the full API surface. Authentication is applied by the
// JWT middleware given here; per-route permissions are enforced by the
// permission middleware, with referent own-scoping handled in the
// application services.
func Setup(engine *gin.Engine, h Handlers, jwtAuth gin.HandlerFunc) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(jwtAuth)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.Info)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/change-password", h.Auth.ChangePassword)

	identity := NewDomainGroup("identity", "/identity")
	identity.POST("/users", middleware.RequirePermission("user:create"), h.User.Create)
	identity.GET("/users", middleware.RequirePermission("user:read"), h.User.List)
	identity.GET("/users/:id", middleware.RequirePermission("user:read"), h.User.GetByID)
	identity.PUT("/users/:id", middleware.RequirePermission("user:update"), h.User.Update)
	identity.POST("/users/:id/activate", middleware.RequirePermission("user:update"), h.User.Activate)
	identity.POST("/users/:id/deactivate", middleware.RequirePermission("user:update"), h.User.Deactivate)
	identity.POST("/users/:id/unlock", middleware.RequirePermission("user:update"), h.User.Unlock)
	identity.POST("/users/:id/reset-password", middleware.RequirePermission("user:update"), h.User.ResetPassword)
	identity.PUT("/users/:id/roles", middleware.RequirePermission("user:update"), h.User.AssignRoles)
	identity.DELETE("/users/:id", middleware.RequirePermission("user:delete"), h.User.Delete)

	identity.POST("/roles", middleware.RequirePermission("role:create"), h.Role.Create)
	identity.GET("/roles", middleware.RequirePermission("role:read"), h.Role.List)
	identity.GET("/roles/:id", middleware.RequirePermission("role:read"), h.Role.GetByID)
	identity.PUT("/roles/:id", middleware.RequirePermission("role:update"), h.Role.Update)
	identity.PUT("/roles/:id/permissions", middleware.RequirePermission("role:update"), h.Role.SetPermissions)
	identity.DELETE("/roles/:id", middleware.RequirePermission("role:delete"), h.Role.Delete)

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.POST("/categories", middleware.RequirePermission("category:create"), h.Category.Create)
	catalog.GET("/categories", middleware.RequirePermission("product:read"), h.Category.List)
	catalog.GET("/categories/:id", middleware.RequirePermission("product:read"), h.Category.GetByID)
	catalog.PUT("/categories/:id", middleware.RequirePermission("category:update"), h.Category.Update)
	catalog.POST("/categories/:id/activate", middleware.RequirePermission("category:update"), h.Category.Activate)
	catalog.POST("/categories/:id/deactivate", middleware.RequirePermission("category:update"), h.Category.Deactivate)
	catalog.DELETE("/categories/:id", middleware.RequirePermission("category:delete"), h.Category.Delete)

	catalog.POST("/products", middleware.RequirePermission("product:create"), h.Product.Create)
	catalog.GET("/products", middleware.RequirePermission("product:read"), h.Product.List)
	catalog.GET("/products/active", middleware.RequirePermission("product:read"), h.Product.ListActive)
	catalog.GET("/products/barcode/:barcode", middleware.RequirePermission("product:read"), h.Product.GetByBarcode)
	catalog.GET("/products/:id", middleware.RequirePermission("product:read"), h.Product.GetByID)
	catalog.PUT("/products/:id", middleware.RequirePermission("product:update"), h.Product.Update)
	catalog.POST("/products/:id/activate", middleware.RequirePermission("product:update"), h.Product.Activate)
	catalog.POST("/products/:id/deactivate", middleware.RequirePermission("product:update"), h.Product.Deactivate)
	catalog.DELETE("/products/:id", middleware.RequirePermission("product:delete"), h.Product.Delete)

	catalog.POST("/catalogues", middleware.RequirePermission("catalogue:create"), h.Catalogue.Create)
	catalog.GET("/catalogues", middleware.RequirePermission("catalogue:read"), h.Catalogue.List)
	catalog.GET("/catalogues/:id", middleware.RequirePermission("catalogue:read"), h.Catalogue.GetByID)
	catalog.PUT("/catalogues/:id", middleware.RequirePermission("catalogue:update"), h.Catalogue.Update)
	catalog.POST("/catalogues/:id/entries", middleware.RequirePermission("catalogue:update"), h.Catalogue.AddEntry)
	catalog.DELETE("/catalogues/:id/entries/:product_id", middleware.RequirePermission("catalogue:update"), h.Catalogue.RemoveEntry)
	catalog.POST("/catalogues/:id/open", middleware.RequirePermission("catalogue:update"), h.Catalogue.Open)
	catalog.POST("/catalogues/:id/close", middleware.RequirePermission("catalogue:update"), h.Catalogue.Close)
	catalog.DELETE("/catalogues/:id", middleware.RequirePermission("catalogue:delete"), h.Catalogue.Delete)

	partner := NewDomainGroup("partner", "/partner")
	partner.POST("/suppliers", middleware.RequirePermission("supplier:create"), h.Supplier.Create)
	partner.GET("/suppliers", middleware.RequirePermission("supplier:read"), h.Supplier.List)
	partner.GET("/suppliers/:id", middleware.RequirePermission("supplier:read"), h.Supplier.GetByID)
	partner.PUT("/suppliers/:id", middleware.RequirePermission("supplier:update"), h.Supplier.Update)
	partner.POST("/suppliers/:id/merge", middleware.RequirePermission("supplier:update"), h.Supplier.Merge)
	partner.POST("/suppliers/:id/activate", middleware.RequirePermission("supplier:update"), h.Supplier.Activate)
	partner.POST("/suppliers/:id/deactivate", middleware.RequirePermission("supplier:update"), h.Supplier.Deactivate)
	partner.DELETE("/suppliers/:id", middleware.RequirePermission("supplier:delete"), h.Supplier.Delete)

	ordering := NewDomainGroup("ordering", "/ordering")
	basketPerm := middleware.RequireResource("basket")
	ordering.POST("/baskets", basketPerm, h.Basket.Open)
	ordering.GET("/baskets/:id", basketPerm, h.Basket.Get)
	ordering.PUT("/baskets/:id/lines", basketPerm, h.Basket.SetLine)
	ordering.DELETE("/baskets/:id/lines/:product_id", basketPerm, h.Basket.RemoveLine)
	ordering.DELETE("/baskets/:id", basketPerm, h.Basket.Abandon)

	// Placing an order consumes the member's basket, so basket:update
	// is accepted alongside order:create.
	ordering.POST("/orders", middleware.RequireAnyPermission("order:create", "basket:update"), h.Order.Place)
	ordering.GET("/orders/mine", middleware.RequirePermission("order:read"), h.Order.ListMine)
	ordering.GET("/orders/mine/:id", middleware.RequirePermission("order:read"), h.Order.GetMine)
	ordering.GET("/orders", middleware.RequirePermission("order:list"), h.Order.List)
	ordering.GET("/orders/export", middleware.RequirePermission("order:export"), h.Order.Export)
	ordering.POST("/orders/:id/prepared", middleware.RequirePermission("order:update"), h.Order.MarkPrepared)
	ordering.POST("/orders/:id/delivered", middleware.RequirePermission("order:update"), h.Order.MarkDelivered)
	ordering.POST("/orders/:id/cancel", middleware.RequirePermission("order:update"), h.Order.Cancel)

	caisse := NewDomainGroup("caisse", "/caisse")
	caisse.Use(middleware.RequirePermission("caisse:operate"))
	caisse.GET("/cart", h.Caisse.GetCart)
	caisse.PUT("/cart/member", h.Caisse.SetMember)
	caisse.POST("/cart/lines", h.Caisse.AddProduct)
	caisse.POST("/cart/lines/barcode", h.Caisse.AddByBarcode)
	caisse.PUT("/cart/lines/:index", h.Caisse.SetQuantity)
	caisse.DELETE("/cart/lines/:index", h.Caisse.RemoveLine)
	caisse.POST("/cart/refund", h.Caisse.AddRefund)
	caisse.POST("/cart/membership-fee", h.Caisse.AddMembershipFee)
	caisse.POST("/cart/payments", h.Caisse.AddPaymentLine)
	caisse.PUT("/cart/payments/:index", h.Caisse.SetPayment)
	caisse.DELETE("/cart/payments/:index", h.Caisse.RemovePayment)
	caisse.DELETE("/cart", h.Caisse.ClearCart)
	caisse.POST("/checkout", h.Caisse.Checkout)
	caisse.GET("/drafts", h.Caisse.ListDrafts)
	caisse.POST("/drafts", h.Caisse.SaveDraft)
	caisse.POST("/drafts/:id/load", h.Caisse.LoadDraft)
	caisse.DELETE("/drafts/:id", h.Caisse.DeleteDraft)
	caisse.GET("/sales", h.Caisse.ListSales)
	caisse.GET("/sales/export", h.Caisse.ExportSales)
	caisse.GET("/sales/:id", h.Caisse.GetSale)

	r.Register(system)
	r.Register(auth)
	r.Register(identity)
	r.Register(catalog)
	r.Register(partner)
	r.Register(ordering)
	r.Register(caisse)
	r.Setup()
}
