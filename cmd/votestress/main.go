// Command votestress opens many /ws/votes listeners, keeps voting on one
// question and reports how many score events reached the listeners.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"askme/internal/middleware"

	"github.com/gorilla/websocket"
)

// Metrics tracks the test results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	VotesSent            int64
	EventsReceived       int64
	Errors               int64
}

var metrics Metrics

func main() {
	host := flag.String("host", "localhost:8080", "API server host")
	username := flag.String("username", "", "voter username")
	password := flag.String("password", "password123", "voter password")
	questionID := flag.Uint("question", 1, "question to vote on")
	clients := flag.Int("clients", 50, "number of concurrent listeners")
	interval := flag.Duration("interval", 500*time.Millisecond, "delay between votes")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	log := middleware.Logger
	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: votestress -username <name> [-question id] [-clients n]")
		os.Exit(2)
	}

	token, err := login(*host, *username, *password)
	if err != nil {
		log.Error("login failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go listen(*host, stop, &wg)
		time.Sleep(10 * time.Millisecond)
	}

	wg.Add(1)
	go vote(*host, token, *questionID, *interval, stop, &wg)

	select {
	case <-time.After(*duration):
		log.Info("test duration reached")
	case <-interrupt:
		log.Info("interrupted")
	}
	close(stop)
	wg.Wait()

	log.Info("results",
		slog.Int64("connections_attempted", atomic.LoadInt64(&metrics.ConnectionsAttempted)),
		slog.Int64("connections_success", atomic.LoadInt64(&metrics.ConnectionsSuccess)),
		slog.Int64("connections_failed", atomic.LoadInt64(&metrics.ConnectionsFailed)),
		slog.Int64("votes_sent", atomic.LoadInt64(&metrics.VotesSent)),
		slog.Int64("events_received", atomic.LoadInt64(&metrics.EventsReceived)),
		slog.Int64("errors", atomic.LoadInt64(&metrics.Errors)),
	)
}

func login(host, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(fmt.Sprintf("http://%s/login", host), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// vote alternates like and dislike so the score keeps moving.
func vote(host, token string, questionID uint, interval time.Duration, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	choices := []string{"like", "dislike"}
	for i := 0; ; i++ {
		select {
		case <-stop:
			return
		case <-ticker.C:
			form := url.Values{"id": {fmt.Sprint(questionID)}, "vote": {choices[i%2]}, "type": {"question"}}
			req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/vote", host), bytes.NewBufferString(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := client.Do(req)
			if err != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			atomic.AddInt64(&metrics.VotesSent, 1)
		}
	}
}

func listen(host string, stop <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws/votes"}
	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		atomic.AddInt64(&metrics.Errors, 1)
		return
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()
	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)

	go func() {
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
			atomic.AddInt64(&metrics.EventsReceived, 1)
		}
	}()

	<-stop
	_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
