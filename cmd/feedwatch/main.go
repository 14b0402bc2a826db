// Command feedwatch logs in and prints the live catalog activity feed. With
// -clients > 1 it doubles as a connection soak test for the hub.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/notifications"

	"github.com/gorilla/websocket"
)

// Metrics tracks connection and delivery counts across clients.
type Metrics struct {
	ConnectionsAttempted atomic.Int64
	ConnectionsSuccess   atomic.Int64
	ConnectionsFailed    atomic.Int64
	EventsReceived       atomic.Int64
	Errors               atomic.Int64
}

var metrics Metrics

type feedEvent struct {
	Type    string                      `json:"type"`
	Payload notifications.CatalogAction `json:"payload"`
}

func main() {
	host := flag.String("host", "localhost:5000", "API server host")
	username := flag.String("username", "", "Username to log in as")
	password := flag.String("password", "password123", "Password")
	clients := flag.Int("clients", 1, "Number of concurrent connections")
	duration := flag.Duration("duration", 0, "How long to watch; 0 runs until interrupted")
	flag.Parse()

	logger := middleware.Logger
	if *username == "" {
		logger.Error("-username is required")
		os.Exit(2)
	}

	token, err := login(*host, *username, *password)
	if err != nil {
		logger.Error("login failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("logged in", slog.String("username", *username), slog.Int("clients", *clients))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runClient(*host, token, i, stop, &wg)
		time.Sleep(20 * time.Millisecond)
	}

	var timeout <-chan time.Time
	if *duration > 0 {
		timeout = time.After(*duration)
	}
	select {
	case <-timeout:
		logger.Info("duration reached")
	case <-interrupt:
		logger.Info("interrupted")
	}

	close(stop)
	wg.Wait()
	printMetrics()
}

// login posts the login form and returns the session cookie value.
func login(host, username, password string) (string, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := client.Post(fmt.Sprintf("http://%s/login", host),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("login response carried no session cookie")
}

func runClient(host, token string, id int, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	metrics.ConnectionsAttempted.Add(1)

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws/notifications"}
	header := http.Header{}
	header.Set("Cookie", "session="+token)

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		metrics.ConnectionsFailed.Add(1)
		metrics.Errors.Add(1)
		middleware.Logger.Warn("dial failed", slog.Int("client", id), slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()
	metrics.ConnectionsSuccess.Add(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					metrics.Errors.Add(1)
				}
				return
			}
			metrics.EventsReceived.Add(1)

			var ev feedEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				middleware.Logger.Info("event", slog.Int("client", id), slog.String("raw", string(data)))
				continue
			}
			if id == 0 {
				middleware.Logger.Info(ev.Payload.Message,
					slog.String("type", ev.Type),
					slog.String("action", ev.Payload.Action),
					slog.Uint64("sneaker_id", uint64(ev.Payload.SneakerID)))
			}
		}
	}()

	select {
	case <-stop:
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
	case <-done:
	}
}

func printMetrics() {
	middleware.Logger.Info("feedwatch results",
		slog.Int64("connections_attempted", metrics.ConnectionsAttempted.Load()),
		slog.Int64("connections_success", metrics.ConnectionsSuccess.Load()),
		slog.Int64("connections_failed", metrics.ConnectionsFailed.Load()),
		slog.Int64("events_received", metrics.EventsReceived.Load()),
		slog.Int64("errors", metrics.Errors.Load()))
}
