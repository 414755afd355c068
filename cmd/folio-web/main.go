//go:build js && wasm

// Command folio-web is the browser build of the portfolio behaviors. It runs
// the contact form controller locally and delivers submissions to the folio
// server's /api/contact.
//
//	GOOS=js GOARCH=wasm go build -o assets/folio.wasm ./cmd/folio-web
package main

import (
	"log/slog"
	"syscall/js"

	"github.com/aretw0/folio/internal/dom"
	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/adapters/contactapi"
	"github.com/aretw0/folio/pkg/form"
)

func main() {
	logger := logging.New(slog.LevelInfo)

	ctrl := form.NewController(
		contactapi.New(js.Global().Get("location").Get("origin").String(), nil),
		form.WithLogger(logger),
	)
	b := dom.New(ctrl, dom.WithLogger(logger))
	b.Start()
	logger.Info("folio-web ready")

	select {}
}
