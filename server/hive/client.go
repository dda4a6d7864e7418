//go:generate mockery --name=Client
package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 15 * time.Second

// Client reads account state from a Hive API node. Only the fields needed to
// derive the badge metrics are decoded.
type Client interface {
	GetAccount(ctx context.Context, name string) (*Account, error)
	GetRCAccount(ctx context.Context, name string) (*RCAccount, error)
}

type ClientImpl struct {
	apiURL     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

func NewClient(apiURL string, log logrus.FieldLogger) *ClientImpl {
	return &ClientImpl{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *ClientImpl) call(ctx context.Context, method string, params any, out any) error {
	raw, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return errors.Wrap(err, "failed to marshal rpc request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(err, "failed to build rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "rpc call %s failed", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.Errorf("rpc call %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err = json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return errors.Wrapf(err, "failed to decode rpc response for %s", method)
	}
	if rpcResp.Error != nil {
		return errors.Errorf("rpc call %s failed: %s", method, rpcResp.Error.Message)
	}
	if err = json.Unmarshal(rpcResp.Result, out); err != nil {
		return errors.Wrapf(err, "failed to unmarshal rpc result for %s", method)
	}
	return nil
}

func (c *ClientImpl) GetAccount(ctx context.Context, name string) (*Account, error) {
	var accounts []Account
	if err := c.call(ctx, "condenser_api.get_accounts", [][]string{{name}}, &accounts); err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errors.Errorf("account %s not found", name)
	}
	return &accounts[0], nil
}

func (c *ClientImpl) GetRCAccount(ctx context.Context, name string) (*RCAccount, error) {
	var result struct {
		RCAccounts []RCAccount `json:"rc_accounts"`
	}
	params := map[string][]string{"accounts": {name}}
	if err := c.call(ctx, "rc_api.find_rc_accounts", params, &result); err != nil {
		return nil, err
	}
	if len(result.RCAccounts) == 0 {
		return nil, errors.Errorf("rc account %s not found", name)
	}
	return &result.RCAccounts[0], nil
}
