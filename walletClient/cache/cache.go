package cache

import (
	"sync"
	"time"

	"cosmossdk.io/math"
	"github.com/rs/zerolog"
)

// Balance holds an account's last fetched balance and when it was fetched.
type Balance struct {
	AccountID string    `json:"account_id"`
	Token     string    `json:"token"`
	Amount    math.Int  `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Cache is a thread-safe store of account balances.
// Data can only be changed via UpdateBalance.
type Cache struct {
	mu         sync.RWMutex
	balances   map[string]*Balance
	lastUpdate time.Time
	logger     zerolog.Logger
}

// New creates a new Cache instance.
func New(logger zerolog.Logger) *Cache {
	return &Cache{
		balances: make(map[string]*Balance),
		logger:   logger.With().Str("component", "cache").Logger(),
	}
}

// LastUpdated returns the last time any balance was refreshed.
func (c *Cache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// UpdateBalance replaces the balance of accountID.
func (c *Cache) UpdateBalance(accountID, token string, amount math.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.balances[accountID] = &Balance{
		AccountID: accountID,
		Token:     token,
		Amount:    amount,
		UpdatedAt: now,
	}
	c.lastUpdate = now

	c.logger.Debug().
		Str("account_id", accountID).
		Str("token", token).
		Str("amount", amount.String()).
		Msg("balance updated")
}

// GetBalance returns a copy of an account's balance, safe for reading.
// If not found, returns nil.
func (c *Cache) GetBalance(accountID string) *Balance {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if b, ok := c.balances[accountID]; ok {
		out := *b
		return &out
	}
	return nil
}

// GetAllBalances returns a slice copy of all balances.
func (c *Cache) GetAllBalances() []*Balance {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Balance, 0, len(c.balances))
	for _, b := range c.balances {
		cp := *b
		out = append(out, &cp)
	}
	return out
}
