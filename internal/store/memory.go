package store

import (
	"context" // Interface parity; the in-memory store never blocks
	"sync"    // Mutex guarding the maps
	"time"    // Cadence marker date

	"vaultbank/internal/domain" // Record models

	"github.com/google/uuid"        // Record identifiers
	"github.com/shopspring/decimal" // Money values
)

// Mem is an in-memory Store used by the engine tests. It keeps the same
// contract as the database adapter: CAS balance writes and all-or-nothing
// Atomic units.
type Mem struct {
	mu           sync.Mutex
	users        map[uuid.UUID]domain.User
	wallets      map[uuid.UUID]domain.Wallet // Keyed by owning user id
	vaults       map[uuid.UUID]domain.Vault
	transactions []domain.Transaction
	nextWalletID uint
	nextTxID     uint
}

// NewMem returns an empty in-memory store
func NewMem() *Mem {
	return &Mem{
		users:   make(map[uuid.UUID]domain.User),
		wallets: make(map[uuid.UUID]domain.Wallet),
		vaults:  make(map[uuid.UUID]domain.Vault),
	}
}

// Atomic holds the lock for the whole unit and restores the previous state
// if fn fails, mirroring a database rollback.
func (m *Mem) Atomic(_ context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(&memTx{m: m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// snapshot deep-copies the mutable state for rollback
func (m *Mem) snapshot() *Mem {
	s := &Mem{
		users:        make(map[uuid.UUID]domain.User, len(m.users)),
		wallets:      make(map[uuid.UUID]domain.Wallet, len(m.wallets)),
		vaults:       make(map[uuid.UUID]domain.Vault, len(m.vaults)),
		transactions: append([]domain.Transaction(nil), m.transactions...),
		nextWalletID: m.nextWalletID,
		nextTxID:     m.nextTxID,
	}
	for k, v := range m.users {
		s.users[k] = v
	}
	for k, v := range m.wallets {
		s.wallets[k] = v
	}
	for k, v := range m.vaults {
		s.vaults[k] = v
	}
	return s
}

func (m *Mem) restore(s *Mem) {
	m.users = s.users
	m.wallets = s.wallets
	m.vaults = s.vaults
	m.transactions = s.transactions
	m.nextWalletID = s.nextWalletID
	m.nextTxID = s.nextTxID
}

func (m *Mem) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createUser(u)
}

func (m *Mem) UserByPhone(_ context.Context, phone string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userByPhone(phone)
}

func (m *Mem) UserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userByID(id)
}

func (m *Mem) CreateWallet(_ context.Context, w *domain.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createWallet(w)
}

func (m *Mem) WalletByUser(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.walletByUser(userID)
}

func (m *Mem) SetWalletBalance(_ context.Context, userID uuid.UUID, prev, next decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setWalletBalance(userID, prev, next)
}

func (m *Mem) CreateTransaction(_ context.Context, t *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createTransaction(t)
}

func (m *Mem) TransactionsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactionsByUser(userID, limit, offset)
}

func (m *Mem) CreateVault(_ context.Context, v *domain.Vault) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createVault(v)
}

func (m *Mem) VaultByOwner(_ context.Context, id, userID uuid.UUID) (*domain.Vault, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaultByOwner(id, userID)
}

func (m *Mem) Vaults(_ context.Context) ([]domain.Vault, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allVaults()
}

func (m *Mem) SetVaultBalance(_ context.Context, id uuid.UUID, prev, next decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setVaultBalance(id, prev, next)
}

func (m *Mem) MarkDeducted(_ context.Context, id uuid.UUID, prev, next decimal.Decimal, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markDeducted(id, prev, next, day)
}

// memTx is the view handed to Atomic callbacks: same data, lock already held
type memTx struct {
	m *Mem
}

// Nested Atomic joins the outer unit
func (t *memTx) Atomic(_ context.Context, fn func(Store) error) error {
	return fn(t)
}

func (t *memTx) CreateUser(_ context.Context, u *domain.User) error {
	return t.m.createUser(u)
}

func (t *memTx) UserByPhone(_ context.Context, phone string) (*domain.User, error) {
	return t.m.userByPhone(phone)
}

func (t *memTx) UserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return t.m.userByID(id)
}

func (t *memTx) CreateWallet(_ context.Context, w *domain.Wallet) error {
	return t.m.createWallet(w)
}

func (t *memTx) WalletByUser(_ context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	return t.m.walletByUser(userID)
}

func (t *memTx) SetWalletBalance(_ context.Context, userID uuid.UUID, prev, next decimal.Decimal) error {
	return t.m.setWalletBalance(userID, prev, next)
}

func (t *memTx) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	return t.m.createTransaction(tx)
}

func (t *memTx) TransactionsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	return t.m.transactionsByUser(userID, limit, offset)
}

func (t *memTx) CreateVault(_ context.Context, v *domain.Vault) error {
	return t.m.createVault(v)
}

func (t *memTx) VaultByOwner(_ context.Context, id, userID uuid.UUID) (*domain.Vault, error) {
	return t.m.vaultByOwner(id, userID)
}

func (t *memTx) Vaults(_ context.Context) ([]domain.Vault, error) {
	return t.m.allVaults()
}

func (t *memTx) SetVaultBalance(_ context.Context, id uuid.UUID, prev, next decimal.Decimal) error {
	return t.m.setVaultBalance(id, prev, next)
}

func (t *memTx) MarkDeducted(_ context.Context, id uuid.UUID, prev, next decimal.Decimal, day time.Time) error {
	return t.m.markDeducted(id, prev, next, day)
}

// Unexported implementations assume the lock is held

func (m *Mem) createUser(u *domain.User) error {
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return ErrDuplicate
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Mem) userByPhone(phone string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Phone == phone {
			cp := u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Mem) userByID(id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *Mem) createWallet(w *domain.Wallet) error {
	m.nextWalletID++
	w.ID = m.nextWalletID
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now()
	}
	m.wallets[w.UserID] = *w
	return nil
}

func (m *Mem) walletByUser(userID uuid.UUID) (*domain.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := w
	return &cp, nil
}

func (m *Mem) setWalletBalance(userID uuid.UUID, prev, next decimal.Decimal) error {
	w, ok := m.wallets[userID]
	if !ok || !w.Balance.Equal(prev) {
		return ErrConflict
	}
	w.Balance = next
	m.wallets[userID] = w
	return nil
}

func (m *Mem) createTransaction(t *domain.Transaction) error {
	m.nextTxID++
	t.ID = m.nextTxID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *Mem) transactionsByUser(userID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	var mine []domain.Transaction
	// Newest first: the slice is append-ordered, walk it backwards
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].UserID == userID {
			mine = append(mine, m.transactions[i])
		}
	}
	if offset >= len(mine) {
		return []domain.Transaction{}, nil
	}
	mine = mine[offset:]
	if limit < len(mine) {
		mine = mine[:limit]
	}
	return mine, nil
}

func (m *Mem) createVault(v *domain.Vault) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	m.vaults[v.ID] = *v
	return nil
}

func (m *Mem) vaultByOwner(id, userID uuid.UUID) (*domain.Vault, error) {
	v, ok := m.vaults[id]
	if !ok || v.UserID != userID {
		return nil, ErrNotFound
	}
	cp := v
	return &cp, nil
}

func (m *Mem) allVaults() ([]domain.Vault, error) {
	out := make([]domain.Vault, 0, len(m.vaults))
	for _, v := range m.vaults {
		out = append(out, v)
	}
	return out, nil
}

func (m *Mem) setVaultBalance(id uuid.UUID, prev, next decimal.Decimal) error {
	v, ok := m.vaults[id]
	if !ok || !v.Balance.Equal(prev) {
		return ErrConflict
	}
	v.Balance = next
	m.vaults[id] = v
	return nil
}

func (m *Mem) markDeducted(id uuid.UUID, prev, next decimal.Decimal, day time.Time) error {
	v, ok := m.vaults[id]
	if !ok || !v.Balance.Equal(prev) {
		return ErrConflict
	}
	v.Balance = next
	v.LastDeducted = &day
	m.vaults[id] = v
	return nil
}
