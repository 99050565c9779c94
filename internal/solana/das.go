package solana

import (
	"context"
	"fmt"
)

// dasPageLimit is the page size used when walking searchAssets results.
const dasPageLimit = 100

// DASClient implements AssetIndex against a Digital Asset Standard (DAS)
// endpoint. DAS is an indexer API served alongside JSON-RPC by the major
// providers; results may lag the ledger by a few slots.
type DASClient struct {
	rpc *HTTPClient
}

// NewDASClient creates an asset index backed by the given endpoint.
func NewDASClient(endpoint string, opts ...ClientOption) *DASClient {
	return &DASClient{rpc: NewHTTPClient(endpoint, opts...)}
}

// SearchFungible lists fungible asset identities owned by the address,
// walking all pages. The result is best-effort discovery input: callers
// must re-read anything they act on from the ledger itself.
func (c *DASClient) SearchFungible(ctx context.Context, owner string) ([]AssetItem, error) {
	var items []AssetItem

	for page := 1; ; page++ {
		params := []interface{}{
			map[string]interface{}{
				"ownerAddress": owner,
				"tokenType":    "fungible",
				"page":         page,
				"limit":        dasPageLimit,
			},
		}

		var result searchAssetsResult
		if err := c.rpc.call(ctx, "searchAssets", params, &result); err != nil {
			return nil, fmt.Errorf("searchAssets page %d: %w", page, err)
		}

		for _, item := range result.Items {
			items = append(items, AssetItem{
				ID:     item.ID,
				Name:   item.Content.Metadata.Name,
				Symbol: item.Content.Metadata.Symbol,
			})
		}

		if len(result.Items) < dasPageLimit {
			return items, nil
		}
	}
}

type searchAssetsResult struct {
	Total int               `json:"total"`
	Items []searchAssetItem `json:"items"`
}

type searchAssetItem struct {
	ID      string `json:"id"`
	Content struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
	} `json:"content"`
}

var _ AssetIndex = (*DASClient)(nil)
