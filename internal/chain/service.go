package chain

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/quantumauth-io/quantum-go-utils/retry"

	"github.com/quantumauth-io/cli-wallet/internal/keys"
)

type Config struct {
	DialTimeout      time.Duration
	CallTimeout      time.Duration
	GasMarginPercent uint64
}

// DialFunc opens a backend for an RPC URL.
type DialFunc func(ctx context.Context, url string) (Backend, error)

func dialEthclient(ctx context.Context, url string) (Backend, error) {
	c, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Service caches one Client per RPC URL.
type Service struct {
	cfg  Config
	dial DialFunc

	mu      sync.Mutex
	clients map[string]*Client
}

func NewService(cfg Config) *Service {
	return NewServiceWithDialer(cfg, dialEthclient)
}

func NewServiceWithDialer(cfg Config, dial DialFunc) *Service {
	return &Service{
		cfg:     cfg,
		dial:    dial,
		clients: make(map[string]*Client),
	}
}

// Client returns (and caches) a client for url. The endpoint is checked for
// its chain id before it is cached.
func (s *Service) Client(ctx context.Context, url string) (*Client, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("rpc url is empty")
	}
	cacheKey := strings.ToLower(url)

	s.mu.Lock()
	if existing := s.clients[cacheKey]; existing != nil {
		s.mu.Unlock()
		return existing, nil
	}
	s.mu.Unlock()

	// Dial outside the lock
	dialed, err := s.connect(ctx, url)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing := s.clients[cacheKey]; existing != nil {
		s.mu.Unlock()
		dialed.backend.Close()
		return existing, nil
	}
	s.clients[cacheKey] = dialed
	s.mu.Unlock()

	return dialed, nil
}

func (s *Service) connect(ctx context.Context, url string) (*Client, error) {
	if s.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DialTimeout)
		defer cancel()
	}

	cfg := retry.DefaultConfig()
	cfg.MaxDelayBeforeRetrying = 2 * time.Second
	cfg.InitialDelayBeforeRetrying = 200 * time.Millisecond

	var (
		backend Backend
		chainID *big.Int
	)
	_, err := retry.Retry(ctx, cfg,
		func(ctx context.Context) ([]interface{}, error) {
			b, err := s.dial(ctx, url)
			if err != nil {
				return nil, errors.Wrapf(err, "dial %s", url)
			}
			id, err := b.ChainID(ctx)
			if err != nil {
				b.Close()
				return nil, errors.Wrapf(err, "chain id from %s", url)
			}
			backend, chainID = b, id
			return nil, nil
		},
		nil,
		"connect to rpc")
	if err == nil && backend == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("rpc unreachable", "url", url, "error", err)
		return nil, errors.Wrapf(err, "connect %s", url)
	}

	name := "unknown"
	if k, ok := Known(chainID); ok {
		name = k.Name
	}
	log.Info("connected to rpc", "url", url, "chainId", chainID.String(), "chain", name)
	return NewClient(backend, chainID, s.cfg.CallTimeout), nil
}

// Signer returns a signer for the stored key on the endpoint at url.
func (s *Service) Signer(ctx context.Context, url string, privateKey keys.Secret) (*KeySigner, error) {
	key, err := keys.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	c, err := s.Client(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(c, key, s.cfg.GasMarginPercent), nil
}

// Close closes all cached clients.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, c := range s.clients {
		c.backend.Close()
		delete(s.clients, key)
	}
}
