package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"ai-coursechat-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound chat requests carry a full question and optionally a custom
	// system prompt, so the limit is far above the notification-sized 512.
	maxMessageSize = 64 * 1024
)

// wsDoneData closes a streamed exchange. Warning is set when the answer
// was delivered but could not be saved.
type wsDoneData struct {
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// SessionID bound at connect time; inbound frames cannot switch it.
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte
}

// readPump reads chat requests from the connection and streams answers
// back through the Send channel. Requests on one connection run strictly
// in order.
func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		log.Printf("readPump exiting for session %s", c.SessionID)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log.Printf("readPump started for session %s", c.SessionID)
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for session %s: %v", c.SessionID, err)
			}
			break
		}

		c.handleChatRequest(ctx, raw)
	}
}

func (c *Client) handleChatRequest(ctx context.Context, raw []byte) {
	var req dto.StreamChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.send(marshalFrame(frameTypeError, "invalid request payload"))
		return
	}
	if req.Message == "" {
		c.send(marshalFrame(frameTypeError, "message is required"))
		return
	}
	req.SessionID = c.SessionID

	gen, err := c.Hub.chatService.PrepareStream(ctx, &req)
	if err != nil {
		c.send(marshalFrame(frameTypeError, err.Error()))
		return
	}
	defer gen.Close()

	result, err := gen.Stream(ctx, func(content string) error {
		if !c.send(marshalFrame(frameTypeChunk, content)) {
			return errors.New("client send buffer full")
		}
		return nil
	})
	if err != nil {
		c.send(marshalFrame(frameTypeError, "answer generation failed"))
		return
	}

	c.send(marshalFrame(frameTypeDone, wsDoneData{
		Persisted: result.Persisted,
		Warning:   result.Warning,
	}))

	c.Hub.chatService.CompleteStream(ctx, c.SessionID, result)
}

// send queues a frame for the writer, reporting false when the buffer is
// full instead of blocking the reader.
func (c *Client) send(data []byte) bool {
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// writePump pumps messages from the hub to the websocket connection.
// Each frame goes out as its own message so clients can parse frames
// one by one.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		log.Printf("writePump exiting for session %s", c.SessionID)
		ticker.Stop()
		c.Conn.Close()
	}()

	log.Printf("writePump started for session %s", c.SessionID)
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump Ping error for session %s: %v", c.SessionID, err)
				return
			}
		}
	}
}
