package accounts

import (
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"

	"github.com/anoma/transferd/walletClient/cache"
	"github.com/anoma/transferd/walletClient/config"
	"github.com/anoma/transferd/walletClient/errors"
	"github.com/anoma/transferd/walletClient/txbuilder"
)

// ErrAccountNotFound is returned for ids that were never registered.
var ErrAccountNotFound = stderrors.New("account not found")

// DerivedAccount is an account this node can sign for.
type DerivedAccount struct {
	ID                 string `json:"id"`
	Alias              string `json:"alias"`
	EstablishedAddress string `json:"established_address"`
	TokenType          string `json:"token_type"`
	SigningKey         []byte `json:"-"`
}

// BalanceSource answers balance queries against the ledger.
type BalanceSource interface {
	QueryBalance(ctx context.Context, token, owner string) (math.Int, error)
}

// Service keeps the account registry and their cached balances.
type Service struct {
	logger         zerolog.Logger
	source         BalanceSource
	tokens         txbuilder.Tokens
	balances       *cache.Cache
	requestTimeout time.Duration

	mu       sync.RWMutex
	accounts map[string]DerivedAccount

	wg sync.WaitGroup
}

// NewService creates an account service.
func NewService(source BalanceSource, tokens txbuilder.Tokens, balances *cache.Cache, requestTimeout time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		logger:         logger.With().Str("component", "accounts").Logger(),
		source:         source,
		tokens:         tokens,
		balances:       balances,
		requestTimeout: requestTimeout,
		accounts:       make(map[string]DerivedAccount),
	}
}

// Register adds acc to the registry, replacing any account with the same id.
func (s *Service) Register(acc DerivedAccount) error {
	if acc.ID == "" {
		return errors.NewValidationError("account id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = acc
	return nil
}

// Get returns the account registered under id.
func (s *Service) Get(id string) (DerivedAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return DerivedAccount{}, errors.Wrapf(ErrAccountNotFound, "account %s", id)
	}
	return acc, nil
}

// List returns the registered accounts ordered by id.
func (s *Service) List() []DerivedAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DerivedAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Balance returns the cached balance of id, or nil if it was never fetched.
func (s *Service) Balance(id string) *cache.Balance {
	return s.balances.GetBalance(id)
}

// FetchBalance queries the ledger for acc's balance and caches it.
func (s *Service) FetchBalance(ctx context.Context, acc DerivedAccount) (math.Int, error) {
	token, err := s.tokens.Address(acc.TokenType)
	if err != nil {
		return math.Int{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	amount, err := s.source.QueryBalance(ctx, token, acc.EstablishedAddress)
	if err != nil {
		return math.Int{}, err
	}
	s.balances.UpdateBalance(acc.ID, acc.TokenType, amount)
	return amount, nil
}

// RefreshBalance fetches acc's balance in the background. Failures are logged only.
func (s *Service) RefreshBalance(acc DerivedAccount) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.FetchBalance(context.Background(), acc); err != nil {
			s.logger.Warn().Err(err).Str("account_id", acc.ID).Msg("balance refresh failed")
		}
	}()
}

// Wait blocks until every background refresh has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// LoadAccounts builds the configured accounts, reading each hex encoded
// signing key from its key file. Relative key paths resolve against home.
func LoadAccounts(home string, cfgs []config.AccountConfig) ([]DerivedAccount, error) {
	out := make([]DerivedAccount, 0, len(cfgs))
	for _, c := range cfgs {
		acc := DerivedAccount{
			ID:                 c.ID,
			Alias:              c.Alias,
			EstablishedAddress: c.Address,
			TokenType:          c.Token,
		}
		if c.SigningKeyFile != "" {
			key, err := readSigningKey(home, c.SigningKeyFile)
			if err != nil {
				return nil, errors.NewConfigError(fmt.Sprintf("account %s", c.ID), err)
			}
			acc.SigningKey = key
		}
		out = append(out, acc)
	}
	return out, nil
}

func readSigningKey(home, path string) ([]byte, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("signing key is not hex encoded: %w", err)
	}
	return key, nil
}
