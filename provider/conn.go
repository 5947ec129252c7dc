package provider

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/metrics"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/utils"
)

// conn is one dApp connection. Notifications are applied in read order;
// requests are served concurrently. signers holds the signers handed out on
// this connection, by id.
type conn struct {
	id      int64
	server  *Server
	ws      *websocket.Conn
	origin  string
	wallet  signer.Wallet
	msgChan chan []byte
	done    chan struct{}
	once    sync.Once
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	signers map[string]signer.OfflineSigner
}

func (c *conn) readerLoop() {
	defer c.close()
	c.ws.SetReadLimit(maxMessageSize)
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.ErrorLog(err)
			}
			return
		}

		var req Request
		if err = json.Unmarshal(message, &req); err != nil {
			utils.WarnLogf("provider connection %d: malformed frame: %v", c.id, err)
			continue
		}
		if req.ID == "" {
			c.handleNotification(req)
			continue
		}
		go c.handleRequest(req)
	}
}

func (c *conn) writerLoop() {
	defer c.close()
	for {
		select {
		case message := <-c.msgChan:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				utils.ErrorLog(errors.Wrap(err, "couldn't write to websocket"))
				return
			}
		case <-c.done:
			_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

func (c *conn) close() {
	c.once.Do(func() {
		c.cancel()
		close(c.done)
		_ = c.ws.Close()
		c.server.conns.Delete(c.id)
		atomic.AddInt64(&c.server.connCount, -1)
		metrics.ProviderConnections.Dec()
		utils.Logf("provider connection %d closed", c.id)
	})
}

func (c *conn) send(resp Response) {
	bz, err := json.Marshal(resp)
	if err != nil {
		utils.ErrorLog(errors.Wrap(err, "couldn't encode response"))
		return
	}
	select {
	case c.msgChan <- bz:
	case <-c.done:
	}
}

func (c *conn) announceReady() {
	s := c.server
	ready := func() bool { return s.host.ReadyState() == discovery.StateComplete }
	if err := discovery.WaitReady(c.ctx, ready, s.cfg.PollInterval, 0); err != nil {
		return
	}
	c.send(Response{Event: discovery.ReadyStateChangeEvent})
}

// newSigner creates a signer of chainID and returns its handle. Every call
// gets its own signer, so hints never leak between handles.
func (c *conn) newSigner(chainID string) (signerHandle, error) {
	s, err := c.wallet.GetOfflineSigner(c.ctx, chainID)
	if err != nil {
		return signerHandle{}, err
	}
	h := signerHandle{ChainID: chainID, SignerID: uuid.NewString()}
	c.mu.Lock()
	c.signers[h.SignerID] = s
	c.mu.Unlock()
	return h, nil
}

func (c *conn) signer(id string) (signer.OfflineSigner, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.signers[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSigner, "%q", id)
	}
	return s, nil
}

func (c *conn) handleNotification(req Request) {
	switch req.Method {
	case MethodDeclareFundsRequired:
		var p fundsParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			utils.WarnLogf("provider connection %d: bad %s params: %v", c.id, req.Method, err)
			return
		}
		s, err := c.signer(p.SignerID)
		if err != nil {
			utils.WarnLogf("provider connection %d: %v", c.id, err)
			return
		}
		s.DeclareFundsRequired(p.FundsRequired)
	case MethodDeclareMaxGasEstimate:
		var p gasParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			utils.WarnLogf("provider connection %d: bad %s params: %v", c.id, req.Method, err)
			return
		}
		s, err := c.signer(p.SignerID)
		if err != nil {
			utils.WarnLogf("provider connection %d: %v", c.id, err)
			return
		}
		s.DeclareMaxGasEstimate(p.Gas)
	default:
		utils.WarnLogf("provider connection %d: unknown notification %q", c.id, req.Method)
	}
}

func (c *conn) handleRequest(req Request) {
	result, err := c.dispatch(req)
	resp := Response{ID: req.ID}
	if err == nil {
		resp.Result, err = json.Marshal(result)
	}
	if err != nil {
		resp.Result = nil
		resp.Error = newRPCError(err)
	}
	c.send(resp)
}

func (c *conn) dispatch(req Request) (interface{}, error) {
	ctx := c.ctx
	switch req.Method {
	case MethodGetOfflineSigner:
		var p chainParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		return c.newSigner(p.ChainID)
	case MethodGetAccount:
		var p accountParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		return c.wallet.GetAccount(ctx, p.ChainID, p.Address)
	case MethodGetAccounts:
		var p signerParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		s, err := c.signer(p.SignerID)
		if err != nil {
			return nil, err
		}
		return s.GetAccounts(ctx)
	case MethodSignAmino:
		var p signAminoParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		s, err := c.signer(p.SignerID)
		if err != nil {
			return nil, err
		}
		return s.SignAmino(ctx, p.SignerAddress, p.SignDoc)
	case MethodSignDirect:
		var p signDirectParams
		if err := decodeParams(req, &p); err != nil {
			return nil, err
		}
		s, err := c.signer(p.SignerID)
		if err != nil {
			return nil, err
		}
		return s.SignDirect(ctx, p.SignerAddress, p.SignDoc)
	}
	return nil, errors.Errorf("unknown method %q", req.Method)
}

func decodeParams(req Request, v interface{}) error {
	if err := json.Unmarshal(req.Params, v); err != nil {
		return errors.Wrapf(signer.ErrInvalidSignDoc, "%s params: %v", req.Method, err)
	}
	return nil
}
