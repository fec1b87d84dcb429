package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/pitchplay/pitchplay/log"
)

// observedProperties are watched over the listener's own connection;
// mpv scopes observe_property to the client that issued it.
var observedProperties = []string{
	"time-pos",
	"pause",
	"duration",
	"volume",
	"mute",
	"fullscreen",
	"eof-reached",
}

// EventListener delivers mpv property changes and lifecycle events.
type EventListener struct {
	socketPath string
	conn       net.Conn
	onMessage  func(ipcMessage)
	mu         sync.Mutex
	listening  bool
	done       chan struct{}
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, onMessage func(ipcMessage)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		onMessage:  onMessage,
		done:       make(chan struct{}),
	}
}

// Start subscribes to observedProperties and starts the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observedProperties {
		payload, err := json.Marshal(ipcCommand{
			Command:   []interface{}{"observe_property", i + 1, name},
			RequestID: requestSeq.Add(1),
		})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	el.listening = false
	_ = el.conn.Close()
	<-el.done
}

func (el *EventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Event == "" {
			continue
		}
		el.onMessage(msg)
	}

	if err := scanner.Err(); err != nil {
		log.Debugf("mpv event listener stopped: %v", err)
	}
}
