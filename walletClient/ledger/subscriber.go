package ledger

import (
	"context"
	"sync"
	"time"

	cmtjson "github.com/cometbft/cometbft/libs/json"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	jsonrpcclient "github.com/cometbft/cometbft/rpc/jsonrpc/client"
	rpctypes "github.com/cometbft/cometbft/rpc/jsonrpc/types"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/errors"
)

// subscribeRequestID tags the subscribe request on a dedicated connection.
// The node echoes it on the acknowledgement and on every event of the
// subscription. The client's own request counter starts at 0 and is only
// used by unsubscribe_all.
const subscribeRequestID = rpctypes.JSONRPCIntID(1)

// wsConn is the subset of the CometBFT websocket client used here.
type wsConn interface {
	Start() error
	Stop() error
	Send(ctx context.Context, req rpctypes.RPCRequest) error
	Responses() <-chan rpctypes.RPCResponse
	UnsubscribeAll(ctx context.Context) error
}

type wsClient struct {
	*jsonrpcclient.WSClient
}

// Responses is only valid after Start.
func (c wsClient) Responses() <-chan rpctypes.RPCResponse {
	return c.ResponsesCh
}

// Subscription is a live registration for the block applying one transaction.
// Close releases the registration and its connection; it is safe to call more than once.
type Subscription interface {
	Events() <-chan coretypes.ResultEvent
	Close() error
}

// Subscriber opens one dedicated websocket connection per watched transaction.
type Subscriber struct {
	logger         zerolog.Logger
	dial           func() (wsConn, error)
	requestTimeout time.Duration
}

// NewSubscriber creates a Subscriber for the node at remote.
func NewSubscriber(remote, wsEndpoint string, requestTimeout time.Duration, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		logger: logger.With().Str("component", "ledger_subscriber").Logger(),
		dial: func() (wsConn, error) {
			c, err := jsonrpcclient.NewWS(remote, wsEndpoint)
			if err != nil {
				return nil, err
			}
			return wsClient{c}, nil
		},
		requestTimeout: requestTimeout,
	}
}

// Subscribe registers interest in the block applying hash. It returns only
// after the node acknowledged the subscribe request, so any event for hash
// produced after the call returns is delivered on Events. Connecting and
// registering together are bounded by the request timeout; a rejected or
// unanswered registration is a TransportError.
func (s *Subscriber) Subscribe(ctx context.Context, hash string) (Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	conn, err := s.dial()
	if err != nil {
		return nil, errors.NewTransportError("failed to create event client", err)
	}
	if err := s.start(ctx, conn); err != nil {
		return nil, errors.NewTransportError("failed to open event connection", err)
	}

	req, err := rpctypes.MapToRequest(subscribeRequestID, "subscribe", map[string]interface{}{
		"query": AppliedTxQuery(hash),
	})
	if err != nil {
		s.stop(conn)
		return nil, errors.NewTransportError("failed to encode subscribe request", err)
	}
	if err := conn.Send(ctx, req); err != nil {
		s.stop(conn)
		return nil, errors.NewTransportError("failed to send subscribe request", err)
	}
	if err := awaitAck(ctx, conn.Responses()); err != nil {
		s.stop(conn)
		return nil, err
	}

	s.logger.Debug().Str("tx_hash", hash).Msg("subscribed")
	sub := &subscription{
		logger:         s.logger.With().Str("tx_hash", hash).Logger(),
		conn:           conn,
		events:         make(chan coretypes.ResultEvent, 1),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
		requestTimeout: s.requestTimeout,
	}
	go sub.pump()
	return sub, nil
}

// start dials conn, giving up when ctx ends. A connection that comes up
// after ctx ended is stopped in the background.
func (s *Subscriber) start(ctx context.Context, conn wsConn) error {
	started := make(chan error, 1)
	go func() { started <- conn.Start() }()

	select {
	case err := <-started:
		return err
	case <-ctx.Done():
		go func() {
			if err := <-started; err == nil {
				s.stop(conn)
			}
		}()
		return ctx.Err()
	}
}

func (s *Subscriber) stop(conn wsConn) {
	if err := conn.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to stop event connection")
	}
}

func awaitAck(ctx context.Context, responses <-chan rpctypes.RPCResponse) error {
	for {
		select {
		case <-ctx.Done():
			return errors.NewTransportError("subscription was not acknowledged", ctx.Err())
		case resp, ok := <-responses:
			if !ok {
				return errors.NewTransportError("event connection closed before subscription was acknowledged", nil)
			}
			if !isSubscriptionResponse(resp) {
				continue
			}
			if resp.Error != nil {
				return errors.NewTransportError("subscription rejected by node", resp.Error)
			}
			return nil
		}
	}
}

func isSubscriptionResponse(resp rpctypes.RPCResponse) bool {
	id, ok := resp.ID.(rpctypes.JSONRPCIntID)
	return ok && id == subscribeRequestID
}

// appliedEnvelope is the part of a subscription event that is read. The block
// payload under "data" is skipped.
type appliedEnvelope struct {
	Query  string              `json:"query"`
	Events map[string][]string `json:"events"`
}

type subscription struct {
	logger         zerolog.Logger
	conn           wsConn
	events         chan coretypes.ResultEvent
	quit           chan struct{}
	done           chan struct{}
	requestTimeout time.Duration

	once     sync.Once
	closeErr error
}

func (s *subscription) Events() <-chan coretypes.ResultEvent {
	return s.events
}

// pump forwards subscription events until Close, the connection ends, or
// the node cancels the subscription. Events is closed when it returns.
func (s *subscription) pump() {
	defer close(s.done)
	defer close(s.events)

	responses := s.conn.Responses()
	for {
		select {
		case <-s.quit:
			return
		case resp, ok := <-responses:
			if !ok {
				return
			}
			if !isSubscriptionResponse(resp) {
				continue
			}
			if resp.Error != nil {
				s.logger.Warn().Err(resp.Error).Msg("subscription cancelled by node")
				return
			}

			var env appliedEnvelope
			if err := cmtjson.Unmarshal(resp.Result, &env); err != nil {
				s.logger.Warn().Err(err).Msg("undecodable subscription event")
				continue
			}
			select {
			case s.events <- coretypes.ResultEvent{Query: env.Query, Events: env.Events}:
			case <-s.quit:
				return
			}
		}
	}
}

func (s *subscription) Close() error {
	s.once.Do(func() {
		close(s.quit)

		ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
		defer cancel()

		if err := s.conn.UnsubscribeAll(ctx); err != nil {
			s.logger.Debug().Err(err).Msg("unsubscribe failed")
		}
		if err := s.conn.Stop(); err != nil {
			s.closeErr = errors.NewTransportError("failed to stop event connection", err)
		}
		<-s.done
		s.logger.Debug().Msg("subscription closed")
	})
	return s.closeErr
}
