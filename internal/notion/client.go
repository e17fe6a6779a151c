package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
)

// Service is the slice of the Notion API the ingestor needs.
// The interface enables scripted fakes in tests.
type Service interface {
	// QueryDatabase queries a Notion database with the given request.
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Client is the concrete implementation of Service using the official
// Notion SDK. One Client is created per process and reused for every
// fetch; the underlying HTTP client pools connections.
type Client struct {
	client *notionapi.Client
}

// NewClient creates a Client with the provided integration token.
func NewClient(token string) *Client {
	return &Client{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// QueryDatabase queries a Notion database. A rejected credential or an
// unreachable host surfaces here as an error; callers treat it as fatal
// for the current interaction.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := c.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}
	return resp, nil
}
