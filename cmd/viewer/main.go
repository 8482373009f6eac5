// Command viewer connects to a running backtest's monitor WebSocket and
// prints each broadcast bar snapshot as it arrives.
//
// Usage:
//
//	viewer                                # connect to ws://localhost:8090/ws
//	viewer -url ws://host:8090/ws         # custom endpoint
//	viewer -stats 10                      # print snapshot rate every N seconds
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8090/ws", "monitor WebSocket endpoint")
	statsInterval := flag.Int("stats", 0, "print snapshot rate every N seconds (0 = off)")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	log.Printf("connecting to %s", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	log.Println("connected")

	var msgCount uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for range ticker.C {
				cur := atomic.LoadUint64(&msgCount)
				delta := cur - last
				rate := float64(delta) / float64(*statsInterval)
				log.Printf("[stats] %d snapshots total | %.1f/sec", cur, rate)
				last = cur
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		atomic.AddUint64(&msgCount, 1)

		var pretty map[string]any
		if err := json.Unmarshal(data, &pretty); err != nil {
			fmt.Println(string(data))
			continue
		}
		out, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Println(string(out))
	}
}
