package pool

import (
	"github.com/EricInMarkham/fundpool"
	"github.com/EricInMarkham/fundpool/coin"
	"github.com/EricInMarkham/fundpool/errors"
	"github.com/EricInMarkham/fundpool/orm"
)

const (
	// ownerBucketName is where membership records are stored.
	ownerBucketName = "owners"
	// transferBucketName is where transfer requests are stored.
	transferBucketName = "transfers"
	// depositBucketName is where per-depositor totals are stored.
	depositBucketName = "deposits"
	// fundsBucketName holds the single aggregate accounting record.
	fundsBucketName = "funds"
	// configBucketName holds the single persisted configuration.
	configBucketName = "config"

	// transferSeqName is the auto-increment ID counter for transfers.
	transferSeqName = "id"
	// ownerSeqName is the counter handing out stable owner indexes.
	ownerSeqName = "idx"
)

// singletonKey addresses the only record of one element buckets.
var singletonKey = []byte("current")

// Validate enforces the construction constraints: at least one owner
// slot and a threshold between 1 and the owner capacity.
func (m *Config) Validate() error {
	if m.MaxOwners < 1 {
		return errors.Wrap(ErrConfiguration, "max owners must be positive")
	}
	if m.ApprovalsRequired < 1 {
		return errors.Wrap(ErrConfiguration, "approvals required must be positive")
	}
	if m.ApprovalsRequired > m.MaxOwners {
		return errors.Wrapf(ErrConfiguration,
			"approvals required %d cannot exceed max owners %d",
			m.ApprovalsRequired, m.MaxOwners)
	}
	return nil
}

// Equals returns true if both configurations hold the same values.
func (m *Config) Equals(o *Config) bool {
	return o != nil &&
		m.MaxOwners == o.MaxOwners &&
		m.ApprovalsRequired == o.ApprovalsRequired
}

func (m *OwnerInfo) Validate() error {
	return nil
}

func (m *TransferRequest) Validate() error {
	if err := fundpool.Address(m.Recipient).Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := coin.Amount(m.Amount).Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.Status != StatusOpen && m.Status != StatusExecuted {
		return errors.Wrapf(errors.ErrState, "status %d", m.Status)
	}
	if len(m.Approvals) == 0 {
		return errors.Wrap(errors.ErrModel, "no approvals")
	}
	seen := make(map[string]struct{}, len(m.Approvals))
	for _, a := range m.Approvals {
		if err := fundpool.Address(a).Validate(); err != nil {
			return errors.Wrap(err, "approval")
		}
		if _, ok := seen[string(a)]; ok {
			return errors.Wrapf(errors.ErrModel, "approval %X duplicated", a)
		}
		seen[string(a)] = struct{}{}
	}
	return nil
}

// HasApproval returns true if given address already approved this
// request.
func (m *TransferRequest) HasApproval(a fundpool.Address) bool {
	for _, got := range m.Approvals {
		if a.Equals(got) {
			return true
		}
	}
	return false
}

func (m *Funds) Validate() error {
	if err := coin.Amount(m.Custody).Validate(); err != nil {
		return errors.Wrap(err, "custody")
	}
	if err := coin.Amount(m.Pending).Validate(); err != nil {
		return errors.Wrap(err, "pending")
	}
	if m.Pending > m.Custody {
		return errors.Wrapf(errors.ErrState,
			"pending %d exceeds custody %d", m.Pending, m.Custody)
	}
	return nil
}

func (m *DepositRecord) Validate() error {
	return errors.Wrap(coin.Amount(m.Total).Validate(), "total")
}

// OwnerBucket is a type-safe wrapper around the membership records.
type OwnerBucket struct {
	orm.Bucket
	idx orm.Sequence
}

// NewOwnerBucket initializes an OwnerBucket with default name
func NewOwnerBucket() OwnerBucket {
	b := orm.NewBucket(ownerBucketName, &OwnerInfo{})
	return OwnerBucket{
		Bucket: b,
		idx:    b.Sequence(ownerSeqName),
	}
}

// GetInfo returns the membership record of given address, or nil if
// the address is not a member.
func (b OwnerBucket) GetInfo(db fundpool.ReadOnlyKVStore, a fundpool.Address) (*OwnerInfo, error) {
	obj, err := b.Get(db, a)
	if err != nil || obj == nil {
		return nil, err
	}
	info, ok := obj.Value().(*OwnerInfo)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return info, nil
}

// Count returns the number of registered owners.
func (b OwnerBucket) Count(db fundpool.ReadOnlyKVStore) (int64, error) {
	count, _, err := b.idx.Latest(db)
	return count, err
}

// Register stores a membership record for the address and returns the
// stable index assigned to it, starting at 0.
func (b OwnerBucket) Register(db fundpool.KVStore, a fundpool.Address) (uint32, error) {
	n, err := b.idx.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "owner index")
	}
	index := uint32(n - 1)
	obj := orm.NewSimpleObj(a, &OwnerInfo{Index: index})
	return index, b.Save(db, obj)
}

// TransferBucket is a type-safe wrapper around the transfer requests.
// Requests are keyed by a big endian sequence value so iteration order
// is creation order.
type TransferBucket struct {
	orm.Bucket
	id orm.Sequence
}

// NewTransferBucket initializes a TransferBucket with default name
func NewTransferBucket() TransferBucket {
	b := orm.NewBucket(transferBucketName, &TransferRequest{})
	return TransferBucket{
		Bucket: b,
		id:     b.Sequence(transferSeqName),
	}
}

// Create saves the request under the next free identifier and returns
// that identifier. The first request ever created gets id 1.
func (b TransferBucket) Create(db fundpool.KVStore, req *TransferRequest) (int64, error) {
	key, err := b.id.NextVal(db)
	if err != nil {
		return 0, errors.Wrap(err, "transfer id")
	}
	if err := b.Save(db, orm.NewSimpleObj(key, req)); err != nil {
		return 0, err
	}
	return orm.DecodeSequence(key), nil
}

// Latest returns the highest identifier allocated so far, which is 0
// when no request was ever created.
func (b TransferBucket) Latest(db fundpool.ReadOnlyKVStore) (int64, error) {
	latest, _, err := b.id.Latest(db)
	return latest, err
}

// GetTransfer returns the request with given identifier, or nil if the
// identifier was never allocated.
func (b TransferBucket) GetTransfer(db fundpool.ReadOnlyKVStore, id int64) (*TransferRequest, error) {
	obj, err := b.Get(db, orm.EncodeSequence(id))
	if err != nil || obj == nil {
		return nil, err
	}
	req, ok := obj.Value().(*TransferRequest)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return req, nil
}

// Update overwrites the request stored under given identifier.
func (b TransferBucket) Update(db fundpool.KVStore, id int64, req *TransferRequest) error {
	return b.Save(db, orm.NewSimpleObj(orm.EncodeSequence(id), req))
}

// DepositBucket is a type-safe wrapper around per-depositor totals.
type DepositBucket struct {
	orm.Bucket
}

// NewDepositBucket initializes a DepositBucket with default name
func NewDepositBucket() DepositBucket {
	return DepositBucket{
		Bucket: orm.NewBucket(depositBucketName, &DepositRecord{}),
	}
}

// Total returns the lifetime deposit total of given address. Unknown
// depositors have a zero total.
func (b DepositBucket) Total(db fundpool.ReadOnlyKVStore, a fundpool.Address) (coin.Amount, error) {
	obj, err := b.Get(db, a)
	if err != nil || obj == nil {
		return 0, err
	}
	rec, ok := obj.Value().(*DepositRecord)
	if !ok {
		return 0, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return coin.NewAmount(rec.Total), nil
}

// Record adds the amount to the depositor's lifetime total.
func (b DepositBucket) Record(db fundpool.KVStore, a fundpool.Address, amount coin.Amount) error {
	total, err := b.Total(db, a)
	if err != nil {
		return err
	}
	total, err = total.Add(amount)
	if err != nil {
		return err
	}
	obj := orm.NewSimpleObj(a, &DepositRecord{Total: total.Int64()})
	return b.Save(db, obj)
}

// FundsBucket holds the single aggregate accounting record.
type FundsBucket struct {
	orm.Bucket
}

// NewFundsBucket initializes a FundsBucket with default name
func NewFundsBucket() FundsBucket {
	return FundsBucket{
		Bucket: orm.NewBucket(fundsBucketName, &Funds{}),
	}
}

// GetFunds returns the accounting record, which starts out zeroed.
func (b FundsBucket) GetFunds(db fundpool.ReadOnlyKVStore) (*Funds, error) {
	obj, err := b.Get(db, singletonKey)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &Funds{}, nil
	}
	funds, ok := obj.Value().(*Funds)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return funds, nil
}

// SaveFunds overwrites the accounting record.
func (b FundsBucket) SaveFunds(db fundpool.KVStore, funds *Funds) error {
	return b.Save(db, orm.NewSimpleObj(singletonKey, funds))
}

// ConfigBucket holds the single persisted configuration.
type ConfigBucket struct {
	orm.Bucket
}

// NewConfigBucket initializes a ConfigBucket with default name
func NewConfigBucket() ConfigBucket {
	return ConfigBucket{
		Bucket: orm.NewBucket(configBucketName, &Config{}),
	}
}

// GetConfig returns the persisted configuration, or nil if the store
// was never initialized.
func (b ConfigBucket) GetConfig(db fundpool.ReadOnlyKVStore) (*Config, error) {
	obj, err := b.Get(db, singletonKey)
	if err != nil || obj == nil {
		return nil, err
	}
	cfg, ok := obj.Value().(*Config)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return cfg, nil
}

// SaveConfig persists the configuration.
func (b ConfigBucket) SaveConfig(db fundpool.KVStore, cfg *Config) error {
	return b.Save(db, orm.NewSimpleObj(singletonKey, cfg))
}
