package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
)

var ErrClosed = errors.New("provider: connection closed")

// Client is a signer.Wallet served by a remote provider Server.
type Client struct {
	ws     *websocket.Conn
	origin string

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
}

var _ signer.Wallet = &Client{}

// Dial connects to the provider at url, presenting origin.
func Dial(ctx context.Context, url, origin string) (*Client, error) {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, errors.Wrapf(err, "dial provider %s", url)
	}
	c := &Client{
		ws:      ws,
		origin:  origin,
		pending: make(map[string]chan Response),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Ready is closed once the provider announced readiness.
func (c *Client) Ready() <-chan struct{} {
	return c.ready
}

// Done is closed when the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.writeMu.Unlock()
		err = c.ws.Close()
		close(c.done)
	})
	return err
}

func (c *Client) readLoop() {
	defer c.Close()
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.DebugLog("provider client read failed:", err)
			}
			return
		}
		var resp Response
		if err = json.Unmarshal(message, &resp); err != nil {
			utils.WarnLogf("provider client: malformed frame: %v", err)
			continue
		}
		if resp.Event == discovery.ReadyStateChangeEvent {
			c.readyOnce.Do(func() { close(c.ready) })
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

func (c *Client) write(req Request) error {
	bz, err := json.Marshal(req)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	return c.ws.WriteMessage(websocket.TextMessage, bz)
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	req := Request{ID: uuid.NewString(), Method: method, Params: raw}
	ch := make(chan Response, 1)
	c.mu.Lock()
	c.pending[req.ID] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	if err = c.write(req); err != nil {
		return err
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error.Err()
		}
		if result == nil {
			return nil
		}
		return json.Unmarshal(resp.Result, result)
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

func (c *Client) notify(method string, params interface{}) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return c.write(Request{Method: method, Params: raw})
}

func (c *Client) GetOfflineSigner(ctx context.Context, chainID string) (signer.OfflineSigner, error) {
	var h signerHandle
	if err := c.call(ctx, MethodGetOfflineSigner, chainParams{ChainID: chainID}, &h); err != nil {
		return nil, err
	}
	if h.SignerID == "" {
		return nil, errors.Wrap(ErrUnknownSigner, "provider returned no signer id")
	}
	return &remoteSigner{client: c, handle: h}, nil
}

func (c *Client) GetAccount(ctx context.Context, chainID, address string) (types.AccountData, error) {
	var acc types.AccountData
	err := c.call(ctx, MethodGetAccount, accountParams{ChainID: chainID, Address: address}, &acc)
	return acc, err
}

// remoteSigner is bound to one server side signer. Its hints reach no other signer.
type remoteSigner struct {
	client *Client
	handle signerHandle
}

var _ signer.OfflineSigner = &remoteSigner{}

func (s *remoteSigner) GetAccounts(ctx context.Context) ([]types.AccountData, error) {
	var accounts []types.AccountData
	err := s.client.call(ctx, MethodGetAccounts, signerParams{SignerID: s.handle.SignerID}, &accounts)
	return accounts, err
}

func (s *remoteSigner) SignAmino(ctx context.Context, signerAddress string, doc types.StdSignDoc) (types.AminoSignResponse, error) {
	var resp types.AminoSignResponse
	err := s.client.call(ctx, MethodSignAmino, signAminoParams{SignerID: s.handle.SignerID, SignerAddress: signerAddress, SignDoc: doc}, &resp)
	return resp, err
}

func (s *remoteSigner) SignDirect(ctx context.Context, signerAddress string, doc types.SignDoc) (types.DirectSignResponse, error) {
	var resp types.DirectSignResponse
	err := s.client.call(ctx, MethodSignDirect, signDirectParams{SignerID: s.handle.SignerID, SignerAddress: signerAddress, SignDoc: doc}, &resp)
	return resp, err
}

func (s *remoteSigner) DeclareFundsRequired(funds types.FundsRequired) {
	if err := s.client.notify(MethodDeclareFundsRequired, fundsParams{SignerID: s.handle.SignerID, FundsRequired: funds}); err != nil {
		utils.WarnLogf("couldn't declare funds required: %v", err)
	}
}

func (s *remoteSigner) DeclareMaxGasEstimate(gas uint64) {
	if err := s.client.notify(MethodDeclareMaxGasEstimate, gasParams{SignerID: s.handle.SignerID, Gas: gas}); err != nil {
		utils.WarnLogf("couldn't declare max gas estimate: %v", err)
	}
}
