package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/circulation"
	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/fine"
	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/item"
	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/patron"
	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/policy"
	"github.com/Dendup1234/Koha-lite/app/echoServer/controller/refdata"
)

type C struct {
	Circulation *circulation.Controller
	Fine        *fine.Controller
	Policy      *policy.Controller
	Patron      *patron.Controller
	Item        *item.Controller
	Refdata     *refdata.Controller
}

func Register(e *echo.Echo, c C) {
	v1 := e.Group("/v1")

	// Reference data (administrative module)
	v1.GET("/branches", c.Refdata.ListBranches)
	v1.POST("/branches", c.Refdata.CreateBranch)
	v1.PUT("/branches/:code", c.Refdata.UpdateBranch)
	v1.DELETE("/branches/:code", c.Refdata.DeleteBranch)

	v1.GET("/item-types", c.Refdata.ListItemTypes)
	v1.POST("/item-types", c.Refdata.CreateItemType)
	v1.PUT("/item-types/:code", c.Refdata.UpdateItemType)
	v1.DELETE("/item-types/:code", c.Refdata.DeleteItemType)

	v1.GET("/patron-categories", c.Refdata.ListPatronCategories)
	v1.POST("/patron-categories", c.Refdata.CreatePatronCategory)
	v1.PUT("/patron-categories/:code", c.Refdata.UpdatePatronCategory)
	v1.DELETE("/patron-categories/:code", c.Refdata.DeletePatronCategory)

	// Issuing policies
	v1.GET("/policies", c.Policy.List)
	v1.POST("/policies", c.Policy.Create)
	v1.GET("/policies/:id", c.Policy.Get)
	v1.PUT("/policies/:id", c.Policy.Update)
	v1.DELETE("/policies/:id", c.Policy.Delete)

	// Membership
	v1.GET("/patrons", c.Patron.List)
	v1.POST("/patrons", c.Patron.Create)
	v1.GET("/patrons/:id", c.Patron.Get)
	v1.PUT("/patrons/:id", c.Patron.Update)
	v1.GET("/patrons/:id/loans", c.Circulation.PatronLoans)

	// Catalogue
	v1.GET("/items", c.Item.List)
	v1.POST("/items", c.Item.Create)
	v1.GET("/items/:id", c.Item.Get)
	v1.PUT("/items/:id", c.Item.Update)

	// Circulation
	v1.POST("/circulation/checkout", c.Circulation.Checkout)
	v1.POST("/circulation/checkin", c.Circulation.Checkin)
	v1.POST("/circulation/renew", c.Circulation.Renew)
	v1.GET("/loans/:id", c.Circulation.GetLoan)

	// Fines
	v1.GET("/fines", c.Fine.ListByPatron)
	v1.GET("/fines/:id", c.Fine.Get)
	v1.POST("/fines/:id/payments", c.Fine.Pay)
	v1.POST("/fines/sweep", c.Fine.Sweep)
}
