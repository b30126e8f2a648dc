package utxo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Unspent is one spendable output reported by the explorer.
type Unspent struct {
	TxID        string `json:"txid"`
	Vout        uint32 `json:"vout"`
	Value       int64  `json:"value"` // satoshis
	BlockHeight int64  // 0 while unconfirmed
}

type esploraUTXO struct {
	TxID   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Value  int64  `json:"value"`
	Status struct {
		Confirmed   bool  `json:"confirmed"`
		BlockHeight int64 `json:"block_height"`
	} `json:"status"`
}

// BroadcastError carries the node's rejection verbatim.
type BroadcastError struct {
	NodeMessage string
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast rejected: %s", e.NodeMessage)
}

// ExplorerClient talks to Esplora-compatible explorer APIs. Multiple
// interchangeable endpoints are configured; read calls fail over between
// them in order. Broadcast does NOT fail over: re-submitting the same raw
// transaction to a second node after an ambiguous failure risks surfacing
// a confusing duplicate error instead of the original cause.
type ExplorerClient struct {
	endpoints []string
	http      *http.Client
	log       zerolog.Logger
}

// NewExplorerClient creates the client. timeout bounds every request.
func NewExplorerClient(endpoints []string, timeout time.Duration, log zerolog.Logger) *ExplorerClient {
	return &ExplorerClient{
		endpoints: endpoints,
		http:      &http.Client{Timeout: timeout},
		log:       log,
	}
}

// TipHeight returns the current chain tip height.
func (c *ExplorerClient) TipHeight(ctx context.Context) (int64, error) {
	body, err := c.get(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing tip height: %w", err)
	}
	return height, nil
}

// ListUnspent returns the address's unspent outputs.
func (c *ExplorerClient) ListUnspent(ctx context.Context, address string) ([]Unspent, error) {
	body, err := c.get(ctx, "/address/"+address+"/utxo")
	if err != nil {
		return nil, err
	}
	var raw []esploraUTXO
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing utxo list: %w", err)
	}
	out := make([]Unspent, 0, len(raw))
	for _, u := range raw {
		unspent := Unspent{TxID: u.TxID, Vout: u.Vout, Value: u.Value}
		if u.Status.Confirmed {
			unspent.BlockHeight = u.Status.BlockHeight
		}
		out = append(out, unspent)
	}
	return out, nil
}

// Broadcast submits the raw transaction hex and returns the network's
// txid. A non-200 response surfaces the node's body verbatim as a
// BroadcastError and is never retried here.
func (c *ExplorerClient) Broadcast(ctx context.Context, rawHex string) (string, error) {
	endpoint := c.endpoints[0]
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/tx", strings.NewReader(rawHex))
	if err != nil {
		return "", fmt.Errorf("building broadcast request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("broadcasting to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode != http.StatusOK {
		return "", &BroadcastError{NodeMessage: strings.TrimSpace(string(body))}
	}
	return strings.TrimSpace(string(body)), nil
}

// get tries each endpoint in order until one answers.
func (c *ExplorerClient) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for _, endpoint := range c.endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+path, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn().Err(err).Str("endpoint", endpoint).Str("path", path).Msg("explorer request failed, trying next endpoint")
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<22))
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%s%s: status %d: %s", endpoint, path, resp.StatusCode, strings.TrimSpace(string(body)))
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("all explorer endpoints failed: %w", lastErr)
}
