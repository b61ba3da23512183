// Package main connects to the notification socket and prints every frame,
// for manual end-to-end checks against a running server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// frame mirrors the payload the server publishes for each notification.
type frame struct {
	ID         uint   `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Link       string `json:"link"`
	NotifierID uint   `json:"notifier_id"`
}

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	token := flag.String("token", os.Getenv("KINSHIP_TOKEN"), "Bearer token (defaults to $KINSHIP_TOKEN)")
	secure := flag.Bool("tls", false, "Use wss instead of ws")
	duration := flag.Duration("duration", 0, "Stop after this long (0 runs until interrupted)")
	flag.Parse()

	if *token == "" {
		log.Fatal("a bearer token is required (-token or KINSHIP_TOKEN)")
	}

	scheme := "ws"
	if *secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: *host, Path: "/api/ws/notifications"}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+*token)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			log.Fatalf("dial %s failed with status %d: %v", u.String(), resp.StatusCode, err)
		}
		log.Fatalf("dial %s: %v", u.String(), err)
	}
	defer func() { _ = conn.Close() }()
	log.Printf("listening on %s", u.String())

	var received int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("read: %v", err)
				}
				return
			}
			atomic.AddInt64(&received, 1)
			printFrame(raw)
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupted")
	case <-timeout:
		log.Println("duration reached")
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	log.Printf("received %d notifications", atomic.LoadInt64(&received))
}

func printFrame(raw []byte) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil || f.Kind == "" {
		fmt.Println(string(raw))
		return
	}
	fmt.Printf("[%s] #%d from user %d: %s (%s)\n", f.Kind, f.ID, f.NotifierID, f.Message, f.Link)
}
