package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/Ambush3/SkateSpotApp/handlers"

	"github.com/gorilla/websocket"
)

// Feed reads spot changes from /spot/feed until ctx is done or the connection drops
func (c *Client) Feed(ctx context.Context, fn func(handlers.FeedEvent)) error {
	target := "ws" + strings.TrimPrefix(c.BaseURL, "http") + "/spot/feed"
	header := http.Header{}
	header.Set("User-Agent", c.UserAgent)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		event := handlers.FeedEvent{}
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		fn(event)
	}
}
