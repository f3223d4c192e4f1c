// Package main Koha-lite circulation API.
//
// @title           Koha-lite circulation API
// @version         1.0
// @description     Library circulation engine (policies, loans, fines) plus the thin reference-data surfaces around it.
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/Dendup1234/Koha-lite/app/echoServer"
	circulationctrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/circulation"
	finectrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/fine"
	itemctrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/item"
	patronctrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/patron"
	policyctrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/policy"
	refdatactrl "github.com/Dendup1234/Koha-lite/app/echoServer/controller/refdata"
	"github.com/Dendup1234/Koha-lite/app/echoServer/validation"
	"github.com/Dendup1234/Koha-lite/config"
	finerepo "github.com/Dendup1234/Koha-lite/repository/fine"
	itemrepo "github.com/Dendup1234/Koha-lite/repository/item"
	loanrepo "github.com/Dendup1234/Koha-lite/repository/loan"
	patronrepo "github.com/Dendup1234/Koha-lite/repository/patron"
	policyrepo "github.com/Dendup1234/Koha-lite/repository/policy"
	refdatarepo "github.com/Dendup1234/Koha-lite/repository/refdata"
	circsvc "github.com/Dendup1234/Koha-lite/service/circulation"
	finesvc "github.com/Dendup1234/Koha-lite/service/fine"
	itemsvc "github.com/Dendup1234/Koha-lite/service/item"
	patronsvc "github.com/Dendup1234/Koha-lite/service/patron"
	policysvc "github.com/Dendup1234/Koha-lite/service/policy"
	refdatasvc "github.com/Dendup1234/Koha-lite/service/refdata"
	"github.com/Dendup1234/Koha-lite/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	lr := loanrepo.New(db.SQL)
	ir := itemrepo.New(db.SQL)
	pr := patronrepo.New(db.SQL)
	polr := policyrepo.New(db.SQL)
	fr := finerepo.New(db.SQL)
	rr := refdatarepo.New(db.SQL)

	// services
	pols := policysvc.New(polr)
	fs := finesvc.New(fr)
	cs := circsvc.New(lr, ir, pr, pols, fs, nil)
	sw := circsvc.NewSweeper(lr, pols, fs)
	is := itemsvc.New(ir)
	ps := patronsvc.New(pr)
	rs := refdatasvc.New(rr)

	// controllers
	v := validator.New()
	circC := &circulationctrl.Controller{Svc: cs, V: v, Log: log}
	fineC := &finectrl.Controller{Svc: fs, Sweeper: sw, Log: log}
	policyC := &policyctrl.Controller{Svc: pols, V: v, Log: log}
	patronC := &patronctrl.Controller{Svc: ps, V: v, Log: log}
	itemC := &itemctrl.Controller{Svc: is, V: v, Log: log}
	refC := &refdatactrl.Controller{Svc: rs, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Circulation: circC,
		Fine:        fineC,
		Policy:      policyC,
		Patron:      patronC,
		Item:        itemC,
		Refdata:     refC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
