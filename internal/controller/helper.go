package controller

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vidroom/server/internal/repository/connection"
)

type user struct {
	username string
}

type userInput struct {
	Username string `json:"username" validate:"required,min=1,max=32"`
}

func (c controller) getUser(r *http.Request) (user, error) {
	input := userInput{Username: r.URL.Query().Get("username")}
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return user{}, fmt.Errorf("invalid username: %v", validationErrors)
	}

	return user{username: input.Username}, nil
}

func (c controller) generateTimeBasedId() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

func (c controller) writeToConn(ctx context.Context, conn *connection.Conn, output *Output) error {
	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output.Type, err)
	}

	return nil
}

// broadcast is fire and forget: a member whose queue is full or whose
// connection is gone is skipped, not retried.
func (c controller) broadcast(ctx context.Context, conns []*connection.Conn, output *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.DebugContext(ctx, "broadcast skipped a connection",
				"message_type", output.Type,
				"error", err,
			)
		}
	}
}
