package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/agentboard"
)

// printLog prints the newest log line each time the log region is replaced.
type printLog struct{ last string }

func (p *printLog) SetLines(lines []string) {
	if len(lines) == 0 || lines[len(lines)-1] == p.last {
		return
	}
	p.last = lines[len(lines)-1]
	fmt.Println("log   ", p.last)
}

func (p *printLog) ScrollToEnd() {}

func statPrinter(label string) agentboard.TextView {
	return agentboard.TextViewFunc(func(text string) {
		fmt.Printf("stat   %s = %s\n", label, text)
	})
}

func main() {
	// start mock admin API (see mock_server.go)
	go StartMockAdminAPI(":5000")
	time.Sleep(100 * time.Millisecond)

	d, err := agentboard.New(
		agentboard.WithBaseURL("http://localhost:5000"),
		agentboard.WithLogInterval(2*time.Second),
		agentboard.WithStatsInterval(10*time.Second),
		agentboard.WithLogView(&printLog{}),
		agentboard.WithStatView("total_conversations", statPrinter("conversations")),
		agentboard.WithStatView("avg_response_time", statPrinter("avg response")),
		agentboard.WithAgent("customer_service", agentboard.AgentBinding{
			Response: agentboard.TextViewFunc(func(text string) {
				fmt.Println("reply ", text)
			}),
		}),
		agentboard.WithNoticeCallback(func(n agentboard.Notice) {
			fmt.Printf("notice [%s] %s: %s\n", n.Level, n.AgentID, n.Text)
		}),
	)
	if err != nil {
		slog.Error("failed to create dashboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  AgentBoard SDK demo: printing refreshes from a mock admin API.")
	fmt.Println("  Press Ctrl+C to stop.")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// one-off actions, as a button click or form submit would trigger them
	go func() {
		time.Sleep(3 * time.Second)
		_ = d.Actions().TestAgent(ctx, "customer_service", "Where is my order?")
		_ = d.Actions().SaveAgentConfig(ctx, "customer_service", agentboard.AgentConfig{"tone": "friendly"})
	}()

	if err := d.Start(ctx); err != nil {
		slog.Error("dashboard error", "error", err)
		os.Exit(1)
	}
}
