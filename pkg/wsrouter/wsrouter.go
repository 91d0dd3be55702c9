package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Conn is the subset of a websocket connection the router needs. Writes must
// be safe for concurrent use; reads must come from a single goroutine.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
}

type HandlerFunc[T any] func(ctx context.Context, conn Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

type WSRouter struct {
	routes      map[string]HandlerFunc[json.RawMessage]
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc[json.RawMessage])}
}

// Use appends middlewares to the chain. Must be called before Handle.
func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// Handle registers a typed handler for a message type. The payload is
// unmarshaled into T before the middleware chain runs.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	wrapped := func(ctx context.Context, conn Conn, payload any) error {
		return handler(ctx, conn, payload.(T))
	}
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	r.routes[messageType] = func(ctx context.Context, conn Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("unmarshal %s payload: %w", messageType, err)
			}
		}

		return wrapped(ctx, conn, input)
	}
}

// ServeConn reads messages from the connection and dispatches them until the
// read side fails. Handler errors are reported back to the client and do not
// terminate the connection.
func (r *WSRouter) ServeConn(ctx context.Context, conn Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			if err := conn.WriteJSON(&output{
				Type:    "ERROR",
				Payload: map[string]string{"message": "unknown message type"},
			}); err != nil {
				return err
			}
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := handler(msgCtx, conn, msg.Payload); err != nil {
			if werr := conn.WriteJSON(&output{
				Type:    "ERROR",
				Payload: map[string]string{"message": err.Error()},
			}); werr != nil {
				return werr
			}
		}
	}
}
