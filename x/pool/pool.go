package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
)

// Mover is the external primitive that actually moves funds out of
// custody. It is assumed atomic: either the funds moved and the call
// returns nil, or nothing happened at all. A success is irreversible.
type Mover interface {
	Move(recipient fundpool.Address, amount coin.Amount) error
}

// Pool is the aggregate holding all state of one fund pool. It owns
// the store and is the only writer to it. Operations are expected to
// be externally serialized, the pool performs no locking.
type Pool struct {
	db    fundpool.CacheableKVStore
	cfg   Config
	mover Mover
	obs   Observer

	owners    OwnerBucket
	transfers TransferBucket
	deposits  DepositBucket
	funds     FundsBucket
	config    ConfigBucket
}

// Option configures optional pool collaborators.
type Option func(*Pool)

// WithObserver attaches an observer for pool notifications.
func WithObserver(obs Observer) Option {
	return func(p *Pool) {
		p.obs = obs
	}
}

// NewPool creates a pool on top of the given store. A fresh store is
// initialized with the configuration; a store that already holds pool
// state must be opened with the exact same configuration, the
// parameters are immutable after creation.
func NewPool(db fundpool.CacheableKVStore, cfg Config, mover Mover, opts ...Option) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mover == nil {
		return nil, errors.Wrap(ErrConfiguration, "missing mover")
	}

	p := &Pool{
		db:        db,
		cfg:       cfg,
		mover:     mover,
		obs:       NopObserver{},
		owners:    NewOwnerBucket(),
		transfers: NewTransferBucket(),
		deposits:  NewDepositBucket(),
		funds:     NewFundsBucket(),
		config:    NewConfigBucket(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.initConfig(); err != nil {
		return nil, err
	}
	return p, nil
}

// initConfig persists the configuration on first use and rejects a
// reopen with different parameters.
func (p *Pool) initConfig() error {
	stored, err := p.config.GetConfig(p.db)
	if err != nil {
		return err
	}
	if stored != nil {
		if !p.cfg.Equals(stored) {
			return errors.Wrapf(ErrConfiguration,
				"store created with max owners %d, approvals required %d",
				stored.MaxOwners, stored.ApprovalsRequired)
		}
		return nil
	}

	cache := p.db.CacheWrap()
	if err := p.config.SaveConfig(cache, &p.cfg); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// Config returns a copy of the pool configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// transact runs op against a cache wrap of the pool store. The wrap is
// written only if op succeeds, otherwise it is discarded and no
// mutation survives. This makes every public operation all-or-nothing.
func (p *Pool) transact(op func(db fundpool.KVStore) error) error {
	cache := p.db.CacheWrap()
	if err := op(cache); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}
