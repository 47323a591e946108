package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/valyala/fasthttp"
)

// boardprobe hits the ops /healthz endpoint and exits 0/1, for use as a
// container or systemd health check.
func main() {
	url := flag.String("url", "http://127.0.0.1:9090/healthz", "ops healthz URL")
	timeout := flag.Duration("timeout", 2*time.Second, "request timeout")
	flag.Parse()

	c := &fasthttp.Client{
		ReadTimeout:  *timeout,
		WriteTimeout: *timeout,
	}
	status, body, err := c.GetTimeout(nil, *url, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boardprobe: %v\n", err)
		os.Exit(1)
	}
	if status != fasthttp.StatusOK {
		fmt.Fprintf(os.Stderr, "boardprobe: status %d: %s\n", status, body)
		os.Exit(1)
	}
	fmt.Printf("%s\n", body)
}
