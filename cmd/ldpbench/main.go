// Copyright 2019-2021 Trellis LDP.
// This software is released under an MIT/X11 open source license.

// Package ldpbench provides a load-generation tool for a Trellis
// server.  It drives the HTTP surface directly, so it can benchmark
// any LDP implementation, not just this one.
package main

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli"
)

type benchWork struct {
	BaseURL     string
	Container   string
	Concurrency int
	Client      *http.Client
}

func (bench *benchWork) Run(runner func()) {
	wg := sync.WaitGroup{}
	wg.Add(bench.Concurrency)
	for i := 0; i < bench.Concurrency; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
}

func (bench *benchWork) containerURL() string {
	return strings.TrimSuffix(bench.BaseURL, "/") + "/" + bench.Container
}

var bench benchWork

var putResources = cli.Command{
	Name:  "put",
	Usage: "create many RDF resources",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of resources to create",
		},
	},
	Action: func(c *cli.Context) {
		count := c.Int("count")
		var created, failed int64
		numbers := make(chan int)
		go func() {
			for i := 1; i <= count; i++ {
				numbers <- i
			}
			close(numbers)
		}()
		start := time.Now()
		bench.Run(func() {
			for n := range numbers {
				body := fmt.Sprintf("<> <http://purl.org/dc/terms/title> \"bench resource %d\" .", n)
				url := bench.containerURL() + "/" + uuid.NewV4().String()
				req, err := http.NewRequest(http.MethodPut, url, strings.NewReader(body))
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				req.Header.Set("Content-Type", "text/turtle")
				resp, err := bench.Client.Do(req)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode == http.StatusCreated {
					atomic.AddInt64(&created, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
			}
		})
		report("put", created, failed, time.Since(start))
	},
}

var getResources = cli.Command{
	Name:  "get",
	Usage: "fetch the container repeatedly",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of fetches per worker",
		},
		cli.StringFlag{
			Name:  "accept",
			Value: "text/turtle",
			Usage: "Accept header to negotiate",
		},
	},
	Action: func(c *cli.Context) {
		count := c.Int("count")
		accept := c.String("accept")
		var fetched, failed int64
		start := time.Now()
		bench.Run(func() {
			for i := 0; i < count; i++ {
				req, err := http.NewRequest(http.MethodGet, bench.containerURL(), nil)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				req.Header.Set("Accept", accept)
				resp, err := bench.Client.Do(req)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					atomic.AddInt64(&fetched, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
			}
		})
		report("get", fetched, failed, time.Since(start))
	},
}

func report(op string, ok, failed int64, elapsed time.Duration) {
	rate := float64(ok) / elapsed.Seconds()
	fmt.Printf("%s: %d ok, %d failed in %v (%.1f/s)\n", op, ok, failed, elapsed, rate)
}

func main() {
	app := cli.NewApp()
	app.Usage = "benchmark a Trellis linked data server"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "url",
			Value: "http://localhost:5980",
			Usage: "base URL of the server under test",
		},
		cli.StringFlag{
			Name:  "container",
			Value: "bench",
			Usage: "container path to work in",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many workers in parallel",
		},
	}
	app.Commands = []cli.Command{
		putResources,
		getResources,
	}
	app.Before = func(c *cli.Context) error {
		bench.BaseURL = c.String("url")
		bench.Container = c.String("container")
		bench.Concurrency = c.Int("concurrency")
		bench.Client = &http.Client{Timeout: 30 * time.Second}

		// Make sure the working container exists.
		req, err := http.NewRequest(http.MethodPut, bench.containerURL(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "text/turtle")
		req.Header.Set("Link", `<http://www.w3.org/ns/ldp#BasicContainer>; rel="type"`)
		resp, err := bench.Client.Do(req)
		if err != nil {
			return err
		}
		io.Copy(io.Discard, resp.Body)
		return resp.Body.Close()
	}
	app.RunAndExitOnError()
}
