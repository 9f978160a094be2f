// client/main.go
//
// 开发用探针：连上网关，敲命令发帧，原样打印服务端推送。
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Frame 与网关的入站帧保持一致
type Frame struct {
	Type    string                 `json:"type"`
	Room    string                 `json:"room,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Message 是网关的出站消息
type Message struct {
	Type     string      `json:"type"`
	RoomCode string      `json:"roomCode"`
	PlayerID string      `json:"playerId,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:8080", "gateway host:port")
	name := flag.String("name", "probe", "display name sent on join")
	player := flag.String("player", "", "reuse a player id (reconnect)")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	if *player != "" {
		u.RawQuery = "player=" + url.QueryEscape(*player)
	}
	log.Printf("Connecting to %s", u.String())

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			var msg Message
			if err := c.ReadJSON(&msg); err != nil {
				log.Println("Read error:", err)
				return
			}
			payload, _ := json.Marshal(msg.Payload)
			log.Printf("<- RECV %s room=%s %s", msg.Type, msg.RoomCode, payload)
		}
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	printUsage()

	room := ""
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "create":
				if len(fields) < 2 {
					log.Println("Usage: create <gameType> [rounds]")
					continue
				}
				rounds := 0
				if len(fields) > 2 {
					rounds, _ = strconv.Atoi(fields[2])
				}
				code, err := createRoom(*addr, fields[1], rounds)
				if err != nil {
					log.Println("Create failed:", err)
					continue
				}
				log.Printf("Room created: %s (join %s)", code, code)
			case "join":
				if len(fields) < 2 {
					log.Println("Usage: join <code>")
					continue
				}
				room = strings.ToUpper(fields[1])
				sendFrame(c, &Frame{Type: "join", Room: room, Payload: map[string]interface{}{"name": *name}})
			case "watch":
				if len(fields) < 2 {
					log.Println("Usage: watch <code>")
					continue
				}
				room = strings.ToUpper(fields[1])
				sendFrame(c, &Frame{Type: "join", Room: room, Payload: map[string]interface{}{"name": *name, "spectator": true}})
			case "ready":
				sendFrame(c, &Frame{Type: "ready", Room: room})
			case "unready":
				sendFrame(c, &Frame{Type: "ready", Room: room, Payload: map[string]interface{}{"ready": false}})
			case "start":
				sendFrame(c, &Frame{Type: "start", Room: room})
			case "skip":
				sendFrame(c, &Frame{Type: "skip", Room: room})
			case "act":
				sendFrame(c, &Frame{Type: "action", Room: room, Payload: parseKV(fields[1:])})
			case "leave":
				sendFrame(c, &Frame{Type: "leave", Room: room})
				room = ""
			case "end":
				sendFrame(c, &Frame{Type: "endGame", Room: room})
			case "ping":
				sendFrame(c, &Frame{Type: "ping"})
			case "quit":
				return
			default:
				printUsage()
			}
		}
	}
}

func printUsage() {
	log.Println("Commands: create <type> [rounds] | join <code> | watch <code> | ready | unready | start | act k=v ... | skip | leave | end | ping | quit")
}

func sendFrame(c *websocket.Conn, frame *Frame) {
	if err := c.WriteJSON(frame); err != nil {
		log.Println("Write error:", err)
		return
	}
	log.Printf("-> SENT %s", frame.Type)
}

// parseKV 把 act guess=42 correct=true clue=sunset 这类命令行参数
// 拼成动作载荷。裸键视为 true。
func parseKV(fields []string) map[string]interface{} {
	payload := make(map[string]interface{})
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			payload[f] = true
			continue
		}
		if n, err := strconv.Atoi(v); err == nil {
			payload[k] = n
		} else if b, err := strconv.ParseBool(v); err == nil {
			payload[k] = b
		} else {
			payload[k] = v
		}
	}
	return payload
}

func createRoom(addr, gameType string, rounds int) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{"gameType": gameType, "rounds": rounds})
	resp, err := http.Post("http://"+addr+"/rooms", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Code   string `json:"code"`
		Reason string `json:"reason"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s: %s", out.Reason, out.Detail)
	}
	return out.Code, nil
}
