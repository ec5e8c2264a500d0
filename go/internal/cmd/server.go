package main

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/tplauction/go/internal/console"
)

func setupServer(port string, c *console.Console) *http.Server {
	// Setup HTTP/2 server
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           h2c.NewHandler(c.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
