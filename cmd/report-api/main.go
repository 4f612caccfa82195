package main

import (
	"flag"

	"civic-request-report/internal/api"
	"civic-request-report/internal/store"
	"civic-request-report/pkg/router"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "report.db", "path to the run store")
	flag.Parse()

	if err := store.InitDB(*dbPath); err != nil {
		panic(err)
	}

	r := router.New()
	api.RegisterRoutes(r)
	r.Start(*addr)
}
